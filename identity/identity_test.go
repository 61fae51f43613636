// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id1 := NewID()
	id2 := NewID()
	if !IsValidID(id1) {
		t.Errorf("NewID() = %q, not a valid UUID", id1)
	}
	if id1 == id2 {
		t.Error("NewID() produced duplicate IDs (extremely unlikely)")
	}
	if IsValidID("not-a-uuid") {
		t.Error("IsValidID() accepted garbage")
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt")
	h2 := HashIP("192.168.1.1", "salt")
	if h1 != h2 {
		t.Error("HashIP() is not deterministic")
	}
	if len(h1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h1))
	}
	if HashIP("192.168.1.1", "other") == h1 {
		t.Error("HashIP() ignored the salt")
	}
	if strings.Contains(h1, "192") {
		t.Error("HashIP() leaks the raw IP")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Employee Survey", "employee-survey"},
		{"punctuation", "Q1: How's it going?!", "q1-hows-it-going"},
		{"trailing bangs", "Q1 Survey!!", "q1-survey"},
		{"accents", "Café Résumé", "cafe-resume"},
		{"underscores and hyphens", "a__b--c  d", "a-b-c-d"},
		{"leading and trailing", "  -Hello-  ", "hello"},
		{"only symbols", "!!!", ""},
		{"non latin", "调查", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestGenerateUniqueSlug(t *testing.T) {
	ctx := context.Background()

	t.Run("free base", func(t *testing.T) {
		slug, err := GenerateUniqueSlug(ctx, "Team Pulse", func(context.Context, string) (bool, error) {
			return false, nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if slug != "team-pulse" {
			t.Errorf("Expected team-pulse, got %q", slug)
		}
	})

	t.Run("empty title defaults", func(t *testing.T) {
		slug, _ := GenerateUniqueSlug(ctx, "???", func(context.Context, string) (bool, error) {
			return false, nil
		})
		if slug != "survey" {
			t.Errorf("Expected survey, got %q", slug)
		}
	})

	t.Run("long title truncated", func(t *testing.T) {
		slug, _ := GenerateUniqueSlug(ctx, strings.Repeat("abcdefghij ", 10), func(context.Context, string) (bool, error) {
			return false, nil
		})
		if len(slug) > 40 || !IsValidSlug(slug) {
			t.Errorf("Expected a valid slug of at most 40 chars, got %q", slug)
		}
	})

	t.Run("collision adds suffix", func(t *testing.T) {
		taken := map[string]bool{"team-pulse": true}
		slug, err := GenerateUniqueSlug(ctx, "Team Pulse", func(_ context.Context, s string) (bool, error) {
			return taken[s], nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		suffix, ok := strings.CutPrefix(slug, "team-pulse-")
		if !ok || len(suffix) != 6 {
			t.Errorf("Expected team-pulse-XXXXXX, got %q", slug)
		}
		for _, c := range suffix {
			if !strings.ContainsRune(suffixAlphabet, c) {
				t.Errorf("Suffix contains invalid char %c", c)
			}
		}
	})

	t.Run("collision on punctuated title", func(t *testing.T) {
		slug, err := GenerateUniqueSlug(ctx, "Q1 Survey!!", func(_ context.Context, s string) (bool, error) {
			return s == "q1-survey", nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		suffix, ok := strings.CutPrefix(slug, "q1-survey-")
		if !ok || len(suffix) != 6 {
			t.Errorf("Expected q1-survey-XXXXXX, got %q", slug)
		}
	})

	t.Run("persistent collision falls back to timestamp", func(t *testing.T) {
		calls := 0
		slug, err := GenerateUniqueSlug(ctx, "Team Pulse", func(_ context.Context, s string) (bool, error) {
			calls++
			return calls <= 11, nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if calls != 11 {
			t.Errorf("Expected 11 probes, got %d", calls)
		}
		if !strings.HasPrefix(slug, "team-pulse-") || !IsValidSlug(slug) {
			t.Errorf("Unexpected fallback slug %q", slug)
		}
	})

	t.Run("checker error", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := GenerateUniqueSlug(ctx, "x", func(context.Context, string) (bool, error) {
			return false, boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("Expected wrapped checker error, got %v", err)
		}
	})
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"abc", true},
		{"team-pulse-2024", true},
		{"ab", false},
		{"-abc", false},
		{"abc-", false},
		{"a--b", false},
		{"Abc", false},
		{strings.Repeat("a", 51), false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}
