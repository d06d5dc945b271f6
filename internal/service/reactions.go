// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
)

// ReactionState is the engagement outcome returned to clients after a
// like or dislike. UserLiked and UserDisliked are only meaningful under
// the toggle ledger; the counter ledger leaves them false.
type ReactionState struct {
	Likes        int64 `json:"likes"`
	Dislikes     int64 `json:"dislikes"`
	UserLiked    bool  `json:"userLiked"`
	UserDisliked bool  `json:"userDisliked"`
}

// ReactionLedger applies a like or dislike to an article and returns
// the resulting counter state. kind is store.ReactionLike or
// store.ReactionDislike.
type ReactionLedger interface {
	React(ctx context.Context, principal *model.User, articleID int64, kind string) (ReactionState, error)
}

// CounterLedger counts raw reaction events: every request increments
// its counter, anonymously and without memory of earlier requests.
type CounterLedger struct {
	queries *store.Queries
}

// NewCounterLedger creates a ledger that unconditionally increments.
func NewCounterLedger(db *sql.DB) *CounterLedger {
	return &CounterLedger{queries: store.New(db)}
}

// React bumps the counter matching kind. The article must exist.
func (l *CounterLedger) React(ctx context.Context, _ *model.User, articleID int64, kind string) (ReactionState, error) {
	var counts store.ReactionCounts
	var err error

	switch kind {
	case store.ReactionLike:
		counts, err = l.queries.IncrementArticleLikes(ctx, articleID)
	case store.ReactionDislike:
		counts, err = l.queries.IncrementArticleDislikes(ctx, articleID)
	default:
		return ReactionState{}, fmt.Errorf("unknown reaction kind %q", kind)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReactionState{}, ErrNotFound
		}
		return ReactionState{}, fmt.Errorf("applying reaction: %w", err)
	}

	return ReactionState{Likes: counts.Likes, Dislikes: counts.Dislikes}, nil
}

// ToggleLedger keeps one reaction per user per article. Repeating a
// reaction withdraws it; switching kinds moves it, so a user can never
// hold a like and a dislike on the same article at once.
type ToggleLedger struct {
	db *sql.DB
}

// NewToggleLedger creates a ledger with per-user toggle semantics.
func NewToggleLedger(db *sql.DB) *ToggleLedger {
	return &ToggleLedger{db: db}
}

// React toggles the user's reaction inside a transaction: the per-user
// row and the denormalized counters move together or not at all.
func (l *ToggleLedger) React(ctx context.Context, principal *model.User, articleID int64, kind string) (ReactionState, error) {
	if kind != store.ReactionLike && kind != store.ReactionDislike {
		return ReactionState{}, fmt.Errorf("unknown reaction kind %q", kind)
	}
	if principal == nil {
		return ReactionState{}, ErrUnauthorized
	}
	// Statically configured admins carry ID 0 and have no users row, so
	// a per-user reaction cannot be recorded for them.
	if principal.ID == 0 {
		return ReactionState{}, ErrForbidden
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return ReactionState{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(l.db).WithTx(tx)
	now := time.Now()

	var holds string

	current, err := q.GetReaction(ctx, store.GetReactionParams{
		ArticleID: articleID,
		UserID:    principal.ID,
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		holds = kind
	case err != nil:
		return ReactionState{}, fmt.Errorf("fetching reaction: %w", err)
	case current.Kind == kind:
		holds = ""
	default:
		holds = kind
	}

	likesDelta, dislikesDelta := reactionDeltas(current.Kind, holds)

	// Adjusting the counters first also verifies the article exists
	// before the per-user row is touched.
	counts, err := q.AdjustArticleReactions(ctx, store.AdjustArticleReactionsParams{
		ID:            articleID,
		LikesDelta:    likesDelta,
		DislikesDelta: dislikesDelta,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReactionState{}, ErrNotFound
		}
		return ReactionState{}, fmt.Errorf("adjusting counters: %w", err)
	}

	switch {
	case current.Kind == "":
		if err := q.CreateReaction(ctx, store.CreateReactionParams{
			ArticleID: articleID,
			UserID:    principal.ID,
			Kind:      kind,
			CreatedAt: now,
		}); err != nil {
			return ReactionState{}, fmt.Errorf("creating reaction: %w", err)
		}
	case holds == "":
		if err := q.DeleteReaction(ctx, store.DeleteReactionParams{
			ArticleID: articleID,
			UserID:    principal.ID,
		}); err != nil {
			return ReactionState{}, fmt.Errorf("deleting reaction: %w", err)
		}
	default:
		if err := q.UpdateReactionKind(ctx, store.UpdateReactionKindParams{
			ArticleID: articleID,
			UserID:    principal.ID,
			Kind:      kind,
			CreatedAt: now,
		}); err != nil {
			return ReactionState{}, fmt.Errorf("switching reaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ReactionState{}, fmt.Errorf("committing transaction: %w", err)
	}

	return ReactionState{
		Likes:        counts.Likes,
		Dislikes:     counts.Dislikes,
		UserLiked:    holds == store.ReactionLike,
		UserDisliked: holds == store.ReactionDislike,
	}, nil
}

// reactionDeltas computes the counter shifts for a transition from the
// previously held kind ("" when none) to the kind held afterwards.
func reactionDeltas(before, after string) (likes, dislikes int64) {
	switch before {
	case store.ReactionLike:
		likes--
	case store.ReactionDislike:
		dislikes--
	}
	switch after {
	case store.ReactionLike:
		likes++
	case store.ReactionDislike:
		dislikes++
	}
	return likes, dislikes
}

// NewReactionLedger selects the ledger implementation by mode, one of
// "counter" or "toggle".
func NewReactionLedger(mode string, db *sql.DB) ReactionLedger {
	if mode == "counter" {
		return NewCounterLedger(db)
	}
	return NewToggleLedger(db)
}
