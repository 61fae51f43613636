// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package analytics computes per-survey reports from stored responses.

All aggregation happens in Go over typed answers loaded in one query, so the
same code runs on SQLite and Postgres.

# Per-question statistics

By question category:

	numeric  value distribution (ascending), average, median, min, max
	choice   value distribution by descending count, ties by value
	text     the 10 newest answers
	other    counts only

Response rate is unique respondents over completed responses, as a
rounded percentage.

# Timeline

Completions are grouped by UTC calendar day. The 30 most recent days with
completions are returned, newest first.
*/
package analytics
