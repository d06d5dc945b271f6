// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Article is a stored article row. Tags and MetaKeywords are kept as
// JSON arrays in the database and decoded on scan.
type Article struct {
	ID              int64
	Title           string
	Subtitle        string
	Slug            string
	Content         string
	Excerpt         string
	FeaturedImage   string
	Category        string
	Tags            []string
	AuthorID        int64
	Status          string
	PublishDate     time.Time
	ScheduledDate   sql.NullTime
	Views           int64
	Likes           int64
	Dislikes        int64
	ReadTime        int64
	IsFeatured      int64
	MetaDescription string
	MetaKeywords    []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const articleColumns = `id, title, subtitle, slug, content, excerpt, featured_image,
	category, tags, author_id, status, publish_date, scheduled_date,
	views, likes, dislikes, read_time, is_featured,
	meta_description, meta_keywords, created_at, updated_at`

// articleSummaryColumns is articleColumns with the content body replaced
// by an empty string. List views never carry the full body.
const articleSummaryColumns = `id, title, subtitle, slug, '' AS content, excerpt, featured_image,
	category, tags, author_id, status, publish_date, scheduled_date,
	views, likes, dislikes, read_time, is_featured,
	meta_description, meta_keywords, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var tags, keywords string
	err := row.Scan(
		&a.ID, &a.Title, &a.Subtitle, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.Category, &tags, &a.AuthorID, &a.Status, &a.PublishDate, &a.ScheduledDate,
		&a.Views, &a.Likes, &a.Dislikes, &a.ReadTime, &a.IsFeatured,
		&a.MetaDescription, &keywords, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Article{}, err
	}
	a.Tags = decodeStrings(tags)
	a.MetaKeywords = decodeStrings(keywords)
	return a, nil
}

func encodeStrings(vals []string) string {
	if len(vals) == 0 {
		return "[]"
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStrings(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var vals []string
	_ = json.Unmarshal([]byte(raw), &vals)
	return vals
}

// CreateArticleParams holds the column values for a new article. Slug,
// excerpt and read time are derivation results supplied by the caller;
// the store does not recompute them.
type CreateArticleParams struct {
	Title           string
	Subtitle        string
	Slug            string
	Content         string
	Excerpt         string
	FeaturedImage   string
	Category        string
	Tags            []string
	AuthorID        int64
	Status          string
	PublishDate     time.Time
	ScheduledDate   sql.NullTime
	ReadTime        int64
	IsFeatured      int64
	MetaDescription string
	MetaKeywords    []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateArticle inserts an article and returns the stored row.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO articles (
			title, subtitle, slug, content, excerpt, featured_image,
			category, tags, author_id, status, publish_date, scheduled_date,
			read_time, is_featured, meta_description, meta_keywords,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+articleColumns,
		arg.Title, arg.Subtitle, arg.Slug, arg.Content, arg.Excerpt, arg.FeaturedImage,
		arg.Category, encodeStrings(arg.Tags), arg.AuthorID, arg.Status,
		arg.PublishDate, arg.ScheduledDate,
		arg.ReadTime, arg.IsFeatured, arg.MetaDescription, encodeStrings(arg.MetaKeywords),
		arg.CreatedAt, arg.UpdatedAt,
	)
	return scanArticle(row)
}

// GetArticleByID returns the full article row, content included.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// GetArticleBySlug returns the full article row, content included.
func (q *Queries) GetArticleBySlug(ctx context.Context, slug string) (Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	return scanArticle(row)
}

// UpdateArticleParams carries the full replacement state for an article.
type UpdateArticleParams struct {
	ID              int64
	Title           string
	Subtitle        string
	Slug            string
	Content         string
	Excerpt         string
	FeaturedImage   string
	Category        string
	Tags            []string
	Status          string
	PublishDate     time.Time
	ScheduledDate   sql.NullTime
	ReadTime        int64
	IsFeatured      int64
	MetaDescription string
	MetaKeywords    []string
	UpdatedAt       time.Time
}

// UpdateArticle replaces the mutable columns of an article and returns
// the stored row. Counters (views, likes, dislikes) are not touched.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE articles SET
			title = ?, subtitle = ?, slug = ?, content = ?, excerpt = ?,
			featured_image = ?, category = ?, tags = ?, status = ?,
			publish_date = ?, scheduled_date = ?, read_time = ?,
			is_featured = ?, meta_description = ?, meta_keywords = ?,
			updated_at = ?
		WHERE id = ?
		RETURNING `+articleColumns,
		arg.Title, arg.Subtitle, arg.Slug, arg.Content, arg.Excerpt,
		arg.FeaturedImage, arg.Category, encodeStrings(arg.Tags), arg.Status,
		arg.PublishDate, arg.ScheduledDate, arg.ReadTime,
		arg.IsFeatured, arg.MetaDescription, encodeStrings(arg.MetaKeywords),
		arg.UpdatedAt, arg.ID,
	)
	return scanArticle(row)
}

// DeleteArticle removes an article. Reactions cascade at the schema level.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ArticleFilter restricts article listing and counting. Zero values
// mean "no restriction" for their field.
type ArticleFilter struct {
	Category string
	Status   string
	AuthorID int64
	Featured sql.NullBool
	Search   string
	DateFrom sql.NullTime
	DateTo   sql.NullTime
}

func (f ArticleFilter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.AuthorID != 0 {
		conds = append(conds, "author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.Featured.Valid {
		conds = append(conds, "is_featured = ?")
		if f.Featured.Bool {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	if f.Search != "" {
		conds = append(conds, "(title LIKE ? OR content LIKE ? OR tags LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.DateFrom.Valid {
		conds = append(conds, "publish_date >= ?")
		args = append(args, f.DateFrom.Time)
	}
	if f.DateTo.Valid {
		conds = append(conds, "publish_date <= ?")
		args = append(args, f.DateTo.Time)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Article sort orders map to ORDER BY clauses here. Ties break on a
// stable secondary key so pagination never duplicates rows.
var articleOrderings = map[string]string{
	"newest":  "publish_date DESC, id DESC",
	"oldest":  "publish_date ASC, id ASC",
	"popular": "views DESC, likes DESC, id DESC",
	"liked":   "likes DESC, publish_date DESC, id DESC",
}

// ListArticlesParams combines a filter with sort and pagination.
type ListArticlesParams struct {
	Filter ArticleFilter
	Sort   string
	Limit  int64
	Offset int64
}

// ListArticles returns article summaries (content omitted) matching the
// filter. Unknown sort values fall back to newest-first.
func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]Article, error) {
	where, args := arg.Filter.whereClause()

	orderBy, ok := articleOrderings[arg.Sort]
	if !ok {
		orderBy = articleOrderings["newest"]
	}

	query := fmt.Sprintf(
		`SELECT %s FROM articles%s ORDER BY %s LIMIT ? OFFSET ?`,
		articleSummaryColumns, where, orderBy,
	)
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountArticles returns the number of articles matching the filter.
func (q *Queries) CountArticles(ctx context.Context, filter ArticleFilter) (int64, error) {
	where, args := filter.whereClause()

	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles`+where, args...).Scan(&count)
	return count, err
}

// TrendingArticlesParams bounds the trending view.
type TrendingArticlesParams struct {
	Since time.Time
	Limit int64
}

// ListTrendingArticles returns published article summaries from the
// window, most viewed first with like count as the tiebreaker.
func (q *Queries) ListTrendingArticles(ctx context.Context, arg TrendingArticlesParams) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleSummaryColumns+` FROM articles
		 WHERE status = 'published' AND publish_date >= ?
		 ORDER BY views DESC, likes DESC, id DESC
		 LIMIT ?`,
		arg.Since, arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// IncrementArticleViews bumps the view counter in a single statement so
// concurrent reads never undercount.
func (q *Queries) IncrementArticleViews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles SET views = views + 1 WHERE id = ?`, id)
	return err
}

// ReactionCounts is the counter pair returned by engagement mutations.
type ReactionCounts struct {
	Likes    int64
	Dislikes int64
}

// IncrementArticleLikes bumps the like counter and returns both counts.
func (q *Queries) IncrementArticleLikes(ctx context.Context, id int64) (ReactionCounts, error) {
	var c ReactionCounts
	err := q.db.QueryRowContext(ctx,
		`UPDATE articles SET likes = likes + 1 WHERE id = ? RETURNING likes, dislikes`,
		id).Scan(&c.Likes, &c.Dislikes)
	return c, err
}

// IncrementArticleDislikes bumps the dislike counter and returns both counts.
func (q *Queries) IncrementArticleDislikes(ctx context.Context, id int64) (ReactionCounts, error) {
	var c ReactionCounts
	err := q.db.QueryRowContext(ctx,
		`UPDATE articles SET dislikes = dislikes + 1 WHERE id = ? RETURNING likes, dislikes`,
		id).Scan(&c.Likes, &c.Dislikes)
	return c, err
}

// AdjustArticleReactionsParams applies signed deltas to the denormalized
// reaction counters. Used by the toggle ledger inside its transaction.
type AdjustArticleReactionsParams struct {
	ID            int64
	LikesDelta    int64
	DislikesDelta int64
}

// AdjustArticleReactions shifts both counters atomically, clamping at zero,
// and returns the resulting counts.
func (q *Queries) AdjustArticleReactions(ctx context.Context, arg AdjustArticleReactionsParams) (ReactionCounts, error) {
	var c ReactionCounts
	err := q.db.QueryRowContext(ctx,
		`UPDATE articles
		 SET likes = MAX(0, likes + ?), dislikes = MAX(0, dislikes + ?)
		 WHERE id = ?
		 RETURNING likes, dislikes`,
		arg.LikesDelta, arg.DislikesDelta, arg.ID).Scan(&c.Likes, &c.Dislikes)
	return c, err
}

// SlugExists reports whether any article uses the slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ?`, slug).Scan(&count)
	return count > 0, err
}

// SlugExistsExcludingParams checks slug uniqueness ignoring one article,
// used when updating in place.
type SlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// SlugExistsExcluding reports whether another article uses the slug.
func (q *Queries) SlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?`,
		arg.Slug, arg.ID).Scan(&count)
	return count > 0, err
}

// ListScheduledArticlesDue returns scheduled articles whose scheduled
// date has arrived.
func (q *Queries) ListScheduledArticlesDue(ctx context.Context, now time.Time) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE status = 'scheduled' AND scheduled_date IS NOT NULL AND scheduled_date <= ?
		 ORDER BY scheduled_date ASC`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// PublishScheduledArticleParams stamps a scheduled article as published.
type PublishScheduledArticleParams struct {
	ID          int64
	PublishDate time.Time
	UpdatedAt   time.Time
}

// PublishScheduledArticle flips a scheduled article to published. The
// status guard makes the promotion idempotent under concurrent runs.
func (q *Queries) PublishScheduledArticle(ctx context.Context, arg PublishScheduledArticleParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles
		 SET status = 'published', publish_date = ?, scheduled_date = NULL, updated_at = ?
		 WHERE id = ? AND status = 'scheduled'`,
		arg.PublishDate, arg.UpdatedAt, arg.ID)
	return err
}

// ArticleStats summarizes the collection for the admin dashboard.
type ArticleStats struct {
	Total      int64
	Published  int64
	Drafts     int64
	Scheduled  int64
	TotalViews int64
	TotalLikes int64
}

// GetArticleStats returns collection-wide totals in one scan.
func (q *Queries) GetArticleStats(ctx context.Context) (ArticleStats, error) {
	var s ArticleStats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'published'), 0),
			COALESCE(SUM(status = 'draft'), 0),
			COALESCE(SUM(status = 'scheduled'), 0),
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0)
		FROM articles`,
	).Scan(&s.Total, &s.Published, &s.Drafts, &s.Scheduled, &s.TotalViews, &s.TotalLikes)
	return s, err
}
