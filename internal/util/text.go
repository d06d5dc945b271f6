// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML element, leaving plain text.
var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes all HTML markup from s and collapses the
// surrounding whitespace left behind by removed block elements.
func StripTags(s string) string {
	plain := stripPolicy.Sanitize(s)
	return strings.Join(strings.Fields(plain), " ")
}

// WordCount returns the number of whitespace-separated words in the
// plain-text rendering of s.
func WordCount(s string) int {
	return len(strings.Fields(StripTags(s)))
}

// TruncateRunes returns at most n runes of s. Multibyte characters are
// never split.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
