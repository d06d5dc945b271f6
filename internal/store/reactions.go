// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Reaction kinds. A user holds at most one reaction per article.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction is a per-user engagement row.
type Reaction struct {
	ID        int64
	ArticleID int64
	UserID    int64
	Kind      string
	CreatedAt time.Time
}

// GetReactionParams identifies one user's reaction on one article.
type GetReactionParams struct {
	ArticleID int64
	UserID    int64
}

// GetReaction returns the user's current reaction on the article, or
// sql.ErrNoRows if there is none.
func (q *Queries) GetReaction(ctx context.Context, arg GetReactionParams) (Reaction, error) {
	var r Reaction
	err := q.db.QueryRowContext(ctx,
		`SELECT id, article_id, user_id, kind, created_at
		 FROM article_reactions WHERE article_id = ? AND user_id = ?`,
		arg.ArticleID, arg.UserID,
	).Scan(&r.ID, &r.ArticleID, &r.UserID, &r.Kind, &r.CreatedAt)
	return r, err
}

// CreateReactionParams holds the column values for a new reaction.
type CreateReactionParams struct {
	ArticleID int64
	UserID    int64
	Kind      string
	CreatedAt time.Time
}

// CreateReaction records a reaction. The (article, user) pair is unique
// at the schema level.
func (q *Queries) CreateReaction(ctx context.Context, arg CreateReactionParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO article_reactions (article_id, user_id, kind, created_at)
		 VALUES (?, ?, ?, ?)`,
		arg.ArticleID, arg.UserID, arg.Kind, arg.CreatedAt)
	return err
}

// UpdateReactionKindParams switches an existing reaction between kinds.
type UpdateReactionKindParams struct {
	ArticleID int64
	UserID    int64
	Kind      string
	CreatedAt time.Time
}

// UpdateReactionKind replaces the kind of an existing reaction.
func (q *Queries) UpdateReactionKind(ctx context.Context, arg UpdateReactionKindParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE article_reactions SET kind = ?, created_at = ?
		 WHERE article_id = ? AND user_id = ?`,
		arg.Kind, arg.CreatedAt, arg.ArticleID, arg.UserID)
	return err
}

// DeleteReactionParams identifies the reaction to remove.
type DeleteReactionParams struct {
	ArticleID int64
	UserID    int64
}

// DeleteReaction removes the user's reaction from the article.
func (q *Queries) DeleteReaction(ctx context.Context, arg DeleteReactionParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM article_reactions WHERE article_id = ? AND user_id = ?`,
		arg.ArticleID, arg.UserID)
	return err
}
