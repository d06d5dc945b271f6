// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestDeriveExcerpt(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		content := "short body"
		if got := DeriveExcerpt(content); got != content {
			t.Errorf("got %q, want %q", got, content)
		}
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", 500)
		got := DeriveExcerpt(content)
		want := strings.Repeat("a", ExcerptPrefixLen) + "..."
		if got != want {
			t.Errorf("got %d chars, want %d", len(got), len(want))
		}
		if !strings.HasSuffix(got, "...") {
			t.Error("expected ellipsis suffix")
		}
	})

	t.Run("exact prefix length has no ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", ExcerptPrefixLen)
		if got := DeriveExcerpt(content); got != content {
			t.Errorf("got %q, want content unchanged", got)
		}
	})

	t.Run("multibyte content counted in runes", func(t *testing.T) {
		content := strings.Repeat("日", ExcerptPrefixLen+1)
		got := DeriveExcerpt(content)
		if n := len([]rune(got)); n != ExcerptPrefixLen+3 {
			t.Errorf("rune length = %d, want %d", n, ExcerptPrefixLen+3)
		}
	})
}

func TestComputeReadTime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{"empty", "", 0},
		{"one word", "hello", 1},
		{"exactly one minute", strings.Repeat("word ", ReadTimeWPM), 1},
		{"just over one minute", strings.Repeat("word ", ReadTimeWPM+1), 2},
		{"three minutes", strings.Repeat("word ", ReadTimeWPM*3), 3},
		{"markup only", "<p></p><div></div>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeReadTime(tt.content); got != tt.want {
				t.Errorf("ComputeReadTime = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsValidArticleStatus(t *testing.T) {
	for _, s := range []string{ArticleStatusDraft, ArticleStatusPublished, ArticleStatusScheduled} {
		if !IsValidArticleStatus(s) {
			t.Errorf("IsValidArticleStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "archived", "Published"} {
		if IsValidArticleStatus(s) {
			t.Errorf("IsValidArticleStatus(%q) = true, want false", s)
		}
	}
}

func TestIsValidArticleCategory(t *testing.T) {
	for _, c := range ArticleCategories {
		if !IsValidArticleCategory(c) {
			t.Errorf("IsValidArticleCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "News", "market analysis"} {
		if IsValidArticleCategory(c) {
			t.Errorf("IsValidArticleCategory(%q) = true, want false", c)
		}
	}
}

func TestIsValidArticleSort(t *testing.T) {
	for _, s := range []string{SortNewest, SortOldest, SortPopular, SortLiked} {
		if !IsValidArticleSort(s) {
			t.Errorf("IsValidArticleSort(%q) = false, want true", s)
		}
	}
	if IsValidArticleSort("random") {
		t.Error("IsValidArticleSort(random) = true, want false")
	}
}
