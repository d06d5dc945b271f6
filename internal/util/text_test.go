// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "just plain text",
			expected: "just plain text",
		},
		{
			name:     "inline markup removed",
			input:    "<p>Hello <strong>World</strong></p>",
			expected: "Hello World",
		},
		{
			name:     "script removed entirely",
			input:    `<script>alert("x")</script>body text`,
			expected: "body text",
		},
		{
			name:     "block elements collapse whitespace",
			input:    "<div>one</div>\n<div>two</div>",
			expected: "one two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripTags(tt.input)
			if got != tt.expected {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(empty) = %d, want 0", got)
	}
	if got := WordCount("one two three"); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	// Markup does not count as words.
	if got := WordCount("<p>one</p> <em>two</em>"); got != 2 {
		t.Errorf("WordCount with markup = %d, want 2", got)
	}
	long := strings.Repeat("word ", 400)
	if got := WordCount(long); got != 400 {
		t.Errorf("WordCount(long) = %d, want 400", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short string should pass through, got %q", got)
	}
	if got := TruncateRunes("hello", 3); got != "hel" {
		t.Errorf("got %q, want hel", got)
	}
	// Multibyte runes must not be split.
	if got := TruncateRunes("日本語テスト", 3); got != "日本語" {
		t.Errorf("got %q, want 日本語", got)
	}
}
