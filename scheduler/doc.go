// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler runs the survey expiry sweep periodically using
// robfig/cron.
package scheduler
