// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for submissions, rejections,
// lifecycle transitions, exports, and HTTP traffic. Services accept a nil
// *Metrics when metrics are disabled.
package metrics
