// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Article, User, Event, and newsletter structures.
package model

import (
	"github.com/olegiv/cnews-go/internal/util"
)

// Article statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusScheduled = "scheduled"
)

// Article categories. The set is closed; filters referencing anything
// else are skipped rather than rejected.
var ArticleCategories = []string{
	"Home",
	"Education",
	"Events",
	"Interviews",
	"Market Analysis",
	"Press Release",
}

// Field length limits enforced on save.
const (
	MaxTitleLen           = 200
	MaxSubtitleLen        = 300
	MaxExcerptLen         = 500
	MaxMetaDescriptionLen = 160

	// ExcerptPrefixLen is how much of the content an auto-generated
	// excerpt keeps before the ellipsis.
	ExcerptPrefixLen = 200

	// ReadTimeWPM is the fixed reading speed used for read-time
	// estimates.
	ReadTimeWPM = 200
)

// IsValidArticleStatus reports whether s is one of the known statuses.
func IsValidArticleStatus(s string) bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished || s == ArticleStatusScheduled
}

// IsValidArticleCategory reports whether c is a member of the category enum.
func IsValidArticleCategory(c string) bool {
	for _, known := range ArticleCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Sort orders accepted by the article listing.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortLiked   = "liked"
)

// IsValidArticleSort reports whether s is a known sort order.
func IsValidArticleSort(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortPopular, SortLiked:
		return true
	}
	return false
}

// DeriveExcerpt returns the auto-generated excerpt for content: its
// first ExcerptPrefixLen runes followed by an ellipsis. Content shorter
// than the prefix is returned whole.
func DeriveExcerpt(content string) string {
	if len([]rune(content)) <= ExcerptPrefixLen {
		return content
	}
	return util.TruncateRunes(content, ExcerptPrefixLen) + "..."
}

// ComputeReadTime estimates reading time in whole minutes at
// ReadTimeWPM words per minute. HTML markup does not count as words.
// Any non-empty content reads as at least one minute.
func ComputeReadTime(content string) int64 {
	words := util.WordCount(content)
	if words == 0 {
		return 0
	}
	minutes := (int64(words) + ReadTimeWPM - 1) / ReadTimeWPM
	return minutes
}
