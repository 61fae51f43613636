// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadDotEnv()  // optional .env file
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - IPHashSalt: Secret for IP hashing (required)
  - PublicBaseURL: Prefix for shareable survey links
  - ExpireSweepSpec: Cron spec for the expiry sweep (default: @every 5m)
  - MetricsEnabled: Serve /metrics (default: true)
  - LogFormat: text or json (default: text)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-base-url     Public base URL
	-ip-salt      IP hash salt
	-expire-cron  Expiry sweep schedule
	-metrics      Enable metrics
	-log-format   Log format

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	PUBLIC_BASE_URL   → -base-url
	IP_HASH_SALT      → -ip-salt
	EXPIRE_SWEEP_CRON → -expire-cron
	METRICS_ENABLED   → -metrics
	LOG_FORMAT        → -log-format

CLI flags take precedence over environment variables, and environment
variables take precedence over a .env file loaded by LoadDotEnv.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - IP_HASH_SALT must be provided
  - DATABASE_TYPE, METRICS_ENABLED and LOG_FORMAT must be recognized values
*/
package cliparse
