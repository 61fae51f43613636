// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity generates identifiers: record IDs, survey slugs, and IP hashes.

# Record IDs

	id := identity.NewID()  // UUID string

# Slugs

Slugs are derived from the survey title:

	slug, err := identity.GenerateUniqueSlug(ctx, "Café Survey 2024", store.SlugExists)
	// "cafe-survey-2024", or "cafe-survey-2024-k3x9q2" on collision

The base is truncated to 40 characters and defaults to "survey" when the
title has no usable characters. Up to 10 random suffixes are tried before
falling back to a base-36 millisecond timestamp, so collisions never fail.

# IP Hashing

Only used when a survey opts into IP tracking:

	hash := identity.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package identity
