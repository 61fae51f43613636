// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxBaseLen     = 40
	suffixLen      = 6
	maxSlugRetries = 10
	defaultBase    = "survey"
)

// SlugChecker reports whether a slug is already taken
type SlugChecker func(ctx context.Context, slug string) (bool, error)

var (
	nonWord   = regexp.MustCompile(`[^a-z0-9_\s-]`)
	separator = regexp.MustCompile(`[\s_-]+`)
	validSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify converts a title into a URL-friendly slug.
// Accents are folded ("Café" -> "cafe"); other non-word characters are dropped.
func Slugify(title string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, title)
	if err != nil {
		folded = title
	}

	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonWord.ReplaceAllString(s, "")
	s = separator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateUniqueSlug derives a slug from title that exists does not report as taken.
// On collision it retries with a random 6-character suffix, then falls back
// to a base-36 millisecond timestamp. Only checker failures are returned.
func GenerateUniqueSlug(ctx context.Context, title string, exists SlugChecker) (string, error) {
	base := Slugify(title)
	if len(base) > maxBaseLen {
		base = strings.TrimRight(base[:maxBaseLen], "-")
	}
	if base == "" {
		base = defaultBase
	}

	slug := base
	for attempt := 0; ; attempt++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		if attempt == maxSlugRetries {
			break
		}
		suffix, err := randomSuffix(suffixLen)
		if err != nil {
			return "", err
		}
		slug = base + "-" + suffix
	}

	return base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36), nil
}

// IsValidSlug checks format and length (3 to 50 characters)
func IsValidSlug(slug string) bool {
	return len(slug) >= 3 && len(slug) <= 50 && validSlug.MatchString(slug)
}
