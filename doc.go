// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey runs internal (employee-targeted) and external (public)
surveys: it manages the survey lifecycle, ingests typed responses, and
derives analytics and exports from them.

# Starting the Server

Configuration comes from CLI flags, environment variables, or a .env file:

	DATABASE_URL=surveys.db IP_HASH_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - IP_HASH_SALT (--ip-salt): Salt for stored IP hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PUBLIC_BASE_URL (--base-url): Base for share links
  - EXPIRE_SWEEP_CRON (--expire-cron): Expiry sweep schedule (default: @every 5m)
  - METRICS_ENABLED (--metrics): Serve /metrics (default: true)
  - LOG_FORMAT (--log-format): text or json (default: text)

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, error mapping, client detection
  - survey: Survey lifecycle, questions and targets
  - response: Eligibility and response ingestion
  - analytics: Per-survey aggregates
  - export: CSV, spreadsheet, HTML report and stats exports
  - scheduler: Cron-driven expiry sweep
  - lifecycle: Status machine and effective status
  - store: SQL persistence for SQLite and PostgreSQL
  - identity: IDs, slugs and IP hashing
  - metrics: Prometheus collectors
  - models: Domain types and errors
  - db: Connections and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
