// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/cnews-go/internal/cache"
	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
	"github.com/olegiv/cnews-go/internal/util"
)

// Pagination defaults and bounds for article listings.
const (
	DefaultPage      = 1
	DefaultPageSize  = 10
	MaxPageSize      = 100
	DefaultTrending  = 5
	MaxTrendingLimit = 20
)

// Trending timeframes map the query token to a window length.
var trendingWindows = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// DefaultTimeframe is used when the trending query omits or mangles
// the timeframe token.
const DefaultTimeframe = "7d"

// ArticleService implements article queries and mutations on top of the
// store, with a cache in front of the trending view.
type ArticleService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
	events  *EventService
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *sql.DB, c cache.Cache, events *EventService) *ArticleService {
	return &ArticleService{
		db:      db,
		queries: store.New(db),
		cache:   c,
		events:  events,
	}
}

// ListQuery carries the raw, untrusted query parameters of a listing
// request. Values that fail to parse fall back to defaults; filter
// values outside their enums are skipped entirely.
type ListQuery struct {
	Category string
	Status   string
	Author   string
	Featured string
	Search   string
	Sort     string
	DateFrom string
	DateTo   string
	Page     string
	Limit    string
}

// ListResult is a page of article summaries with pagination totals.
type ListResult struct {
	Articles []store.Article
	Total    int64
	Page     int64
	Pages    int64
}

// parsePositive coerces a query value into a positive integer, falling
// back to def on absence, garbage, zero or negatives.
func parsePositive(raw string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// List returns a page of article summaries. Callers without an admin
// principal only ever see published articles, regardless of the status
// parameter they send.
func (s *ArticleService) List(ctx context.Context, principal *model.User, q ListQuery) (ListResult, error) {
	var filter store.ArticleFilter

	if model.IsValidArticleCategory(q.Category) {
		filter.Category = q.Category
	}

	if principal != nil && principal.IsAdmin() {
		if model.IsValidArticleStatus(q.Status) {
			filter.Status = q.Status
		}
	} else {
		filter.Status = model.ArticleStatusPublished
	}

	if id, err := strconv.ParseInt(q.Author, 10, 64); err == nil && id > 0 {
		filter.AuthorID = id
	}

	switch strings.ToLower(q.Featured) {
	case "true", "1":
		filter.Featured = sql.NullBool{Bool: true, Valid: true}
	case "false", "0":
		filter.Featured = sql.NullBool{Bool: false, Valid: true}
	}

	filter.Search = strings.TrimSpace(q.Search)

	if t, err := time.Parse(time.RFC3339, q.DateFrom); err == nil {
		filter.DateFrom = sql.NullTime{Time: t, Valid: true}
	} else if t, err := time.Parse("2006-01-02", q.DateFrom); err == nil {
		filter.DateFrom = sql.NullTime{Time: t, Valid: true}
	}
	if t, err := time.Parse(time.RFC3339, q.DateTo); err == nil {
		filter.DateTo = sql.NullTime{Time: t, Valid: true}
	} else if t, err := time.Parse("2006-01-02", q.DateTo); err == nil {
		// A bare date upper bound includes the whole day.
		filter.DateTo = sql.NullTime{Time: t.Add(24*time.Hour - time.Nanosecond), Valid: true}
	}

	sortOrder := q.Sort
	if !model.IsValidArticleSort(sortOrder) {
		sortOrder = model.SortNewest
	}

	page := parsePositive(q.Page, DefaultPage)
	limit := parsePositive(q.Limit, DefaultPageSize)
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	total, err := s.queries.CountArticles(ctx, filter)
	if err != nil {
		return ListResult{}, fmt.Errorf("counting articles: %w", err)
	}

	articles, err := s.queries.ListArticles(ctx, store.ListArticlesParams{
		Filter: filter,
		Sort:   sortOrder,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("listing articles: %w", err)
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	return ListResult{
		Articles: articles,
		Total:    total,
		Page:     page,
		Pages:    pages,
	}, nil
}

// GetByKey resolves an article by numeric ID or slug and applies the
// visibility rules: unpublished articles are only visible to admins and
// their author. A successful read by anyone other than the author bumps
// the view counter.
func (s *ArticleService) GetByKey(ctx context.Context, principal *model.User, key string) (store.Article, error) {
	article, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Article{}, ErrNotFound
		}
		return store.Article{}, fmt.Errorf("fetching article: %w", err)
	}

	if article.Status != model.ArticleStatusPublished && !canManage(principal, article.AuthorID) {
		return store.Article{}, ErrForbidden
	}

	if principal == nil || principal.ID != article.AuthorID {
		if err := s.queries.IncrementArticleViews(ctx, article.ID); err != nil {
			slog.Warn("failed to increment views", "article_id", article.ID, "error", err)
		} else {
			article.Views++
		}
	}

	return article, nil
}

// lookup tries the key as a numeric ID first and falls back to slug so
// that all-digit slugs remain reachable.
func (s *ArticleService) lookup(ctx context.Context, key string) (store.Article, error) {
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil && id > 0 {
		article, err := s.queries.GetArticleByID(ctx, id)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return store.Article{}, err
		}
	}
	return s.queries.GetArticleBySlug(ctx, key)
}

// Trending returns the most viewed published articles of the window,
// likes breaking ties. Results are served from cache when present.
func (s *ArticleService) Trending(ctx context.Context, timeframe string, limitRaw string) ([]store.Article, error) {
	window, ok := trendingWindows[timeframe]
	if !ok {
		timeframe = DefaultTimeframe
		window = trendingWindows[DefaultTimeframe]
	}

	limit := parsePositive(limitRaw, DefaultTrending)
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}

	cacheKey := fmt.Sprintf("trending:%s:%d", timeframe, limit)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
			var articles []store.Article
			if err := json.Unmarshal(raw, &articles); err == nil {
				return articles, nil
			}
		}
	}

	articles, err := s.queries.ListTrendingArticles(ctx, store.TrendingArticlesParams{
		Since: time.Now().Add(-window),
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing trending articles: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(articles); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, 0); err != nil {
				slog.Warn("failed to cache trending articles", "error", err)
			}
		}
	}

	return articles, nil
}

// ArticleInput carries the writable fields of an article for create and
// update operations.
type ArticleInput struct {
	Title           string
	Subtitle        string
	Content         string
	Excerpt         string
	FeaturedImage   string
	Category        string
	Tags            []string
	Status          string
	ScheduledDate   *time.Time
	IsFeatured      bool
	MetaDescription string
	MetaKeywords    []string
}

func validateArticleInput(in ArticleInput) *ValidationError {
	ve := NewValidationError()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		ve.Add("title", "title is required")
	} else if len([]rune(title)) > model.MaxTitleLen {
		ve.Add("title", fmt.Sprintf("title cannot exceed %d characters", model.MaxTitleLen))
	}

	if len([]rune(in.Subtitle)) > model.MaxSubtitleLen {
		ve.Add("subtitle", fmt.Sprintf("subtitle cannot exceed %d characters", model.MaxSubtitleLen))
	}

	if strings.TrimSpace(in.Content) == "" {
		ve.Add("content", "content is required")
	}

	if len([]rune(in.Excerpt)) > model.MaxExcerptLen {
		ve.Add("excerpt", fmt.Sprintf("excerpt cannot exceed %d characters", model.MaxExcerptLen))
	}

	if !model.IsValidArticleCategory(in.Category) {
		ve.Add("category", "unknown category")
	}

	if in.Status != "" && !model.IsValidArticleStatus(in.Status) {
		ve.Add("status", "unknown status")
	}

	if in.Status == model.ArticleStatusScheduled && in.ScheduledDate == nil {
		ve.Add("scheduledDate", "scheduled articles require a scheduled date")
	}

	if len([]rune(in.MetaDescription)) > model.MaxMetaDescriptionLen {
		ve.Add("metaDescription", fmt.Sprintf("meta description cannot exceed %d characters", model.MaxMetaDescriptionLen))
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func canManage(principal *model.User, authorID int64) bool {
	if principal == nil {
		return false
	}
	return principal.IsAdmin() || principal.ID == authorID
}

// Create validates and stores a new article authored by the principal.
// The slug derives from the title; a collision gets a numeric suffix.
// An empty excerpt is generated from the content prefix.
func (s *ArticleService) Create(ctx context.Context, principal *model.User, in ArticleInput) (store.Article, error) {
	if principal == nil {
		return store.Article{}, ErrForbidden
	}

	if ve := validateArticleInput(in); ve != nil {
		return store.Article{}, ve
	}

	status := in.Status
	if status == "" {
		status = model.ArticleStatusDraft
	}

	slug, err := util.UniqueSlug(util.Slugify(in.Title), func(candidate string) (bool, error) {
		return s.queries.SlugExists(ctx, candidate)
	})
	if err != nil {
		return store.Article{}, fmt.Errorf("deriving slug: %w", err)
	}

	excerpt := in.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = model.DeriveExcerpt(in.Content)
	}

	now := time.Now()
	var scheduled sql.NullTime
	if in.ScheduledDate != nil {
		scheduled = sql.NullTime{Time: *in.ScheduledDate, Valid: true}
	}

	article, err := s.queries.CreateArticle(ctx, store.CreateArticleParams{
		Title:           strings.TrimSpace(in.Title),
		Subtitle:        in.Subtitle,
		Slug:            slug,
		Content:         in.Content,
		Excerpt:         excerpt,
		FeaturedImage:   in.FeaturedImage,
		Category:        in.Category,
		Tags:            in.Tags,
		AuthorID:        principal.ID,
		Status:          status,
		PublishDate:     now,
		ScheduledDate:   scheduled,
		ReadTime:        model.ComputeReadTime(in.Content),
		IsFeatured:      boolToInt(in.IsFeatured),
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return store.Article{}, fmt.Errorf("creating article: %w", err)
	}

	s.invalidateTrending(ctx)
	if s.events != nil {
		_ = s.events.LogArticleEvent(ctx, model.EventLevelInfo,
			fmt.Sprintf("Article created: %s", article.Title),
			&principal.ID, map[string]any{"article_id": article.ID, "slug": article.Slug})
	}

	return article, nil
}

// Update replaces the writable fields of an article. Only the author or
// an admin may update. The slug is regenerated only when the title
// actually changed, so links to renamed-in-place articles stay stable.
func (s *ArticleService) Update(ctx context.Context, principal *model.User, key string, in ArticleInput) (store.Article, error) {
	existing, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Article{}, ErrNotFound
		}
		return store.Article{}, fmt.Errorf("fetching article: %w", err)
	}

	if !canManage(principal, existing.AuthorID) {
		return store.Article{}, ErrForbidden
	}

	if ve := validateArticleInput(in); ve != nil {
		return store.Article{}, ve
	}

	status := in.Status
	if status == "" {
		status = existing.Status
	}

	slug := existing.Slug
	title := strings.TrimSpace(in.Title)
	if title != existing.Title {
		slug, err = util.UniqueSlug(util.Slugify(title), func(candidate string) (bool, error) {
			return s.queries.SlugExistsExcluding(ctx, store.SlugExistsExcludingParams{
				Slug: candidate,
				ID:   existing.ID,
			})
		})
		if err != nil {
			return store.Article{}, fmt.Errorf("deriving slug: %w", err)
		}
	}

	excerpt := in.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = model.DeriveExcerpt(in.Content)
	}

	scheduled := existing.ScheduledDate
	if in.ScheduledDate != nil {
		scheduled = sql.NullTime{Time: *in.ScheduledDate, Valid: true}
	}
	if status != model.ArticleStatusScheduled {
		scheduled = sql.NullTime{}
	}

	publishDate := existing.PublishDate
	if status == model.ArticleStatusPublished && existing.Status != model.ArticleStatusPublished {
		publishDate = time.Now()
	}

	article, err := s.queries.UpdateArticle(ctx, store.UpdateArticleParams{
		ID:              existing.ID,
		Title:           title,
		Subtitle:        in.Subtitle,
		Slug:            slug,
		Content:         in.Content,
		Excerpt:         excerpt,
		FeaturedImage:   in.FeaturedImage,
		Category:        in.Category,
		Tags:            in.Tags,
		Status:          status,
		PublishDate:     publishDate,
		ScheduledDate:   scheduled,
		ReadTime:        model.ComputeReadTime(in.Content),
		IsFeatured:      boolToInt(in.IsFeatured),
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		return store.Article{}, fmt.Errorf("updating article: %w", err)
	}

	s.invalidateTrending(ctx)
	if s.events != nil {
		_ = s.events.LogArticleEvent(ctx, model.EventLevelInfo,
			fmt.Sprintf("Article updated: %s", article.Title),
			&principal.ID, map[string]any{"article_id": article.ID, "slug": article.Slug})
	}

	return article, nil
}

// Delete removes an article. Only the author or an admin may delete.
func (s *ArticleService) Delete(ctx context.Context, principal *model.User, key string) error {
	existing, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching article: %w", err)
	}

	if !canManage(principal, existing.AuthorID) {
		return ErrForbidden
	}

	if err := s.queries.DeleteArticle(ctx, existing.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting article: %w", err)
	}

	s.invalidateTrending(ctx)
	if s.events != nil {
		_ = s.events.LogArticleEvent(ctx, model.EventLevelWarning,
			fmt.Sprintf("Article deleted: %s", existing.Title),
			&principal.ID, map[string]any{"article_id": existing.ID, "slug": existing.Slug})
	}

	return nil
}

// Stats returns collection-wide totals for the admin dashboard.
func (s *ArticleService) Stats(ctx context.Context) (store.ArticleStats, error) {
	return s.queries.GetArticleStats(ctx)
}

func (s *ArticleService) invalidateTrending(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		slog.Warn("failed to clear cache", "error", err)
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
