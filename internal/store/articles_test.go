// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/cnews-go/internal/store"
	"github.com/olegiv/cnews-go/internal/testutil"
)

var articleSeq atomic.Int64

func createTestUser(t *testing.T, q *store.Queries) store.User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        fmt.Sprintf("author-%d@example.com", now.UnixNano()),
		PasswordHash: "x",
		Role:         "editor",
		Name:         "Test Author",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func createTestArticle(t *testing.T, q *store.Queries, authorID int64, mutate func(*store.CreateArticleParams)) store.Article {
	t.Helper()
	now := time.Now()
	params := store.CreateArticleParams{
		Title:       "Bitcoin Breaks Resistance",
		Slug:        fmt.Sprintf("bitcoin-breaks-resistance-%d", articleSeq.Add(1)),
		Content:     "The market moved today.",
		Excerpt:     "The market moved today.",
		Category:    "Market Analysis",
		Tags:        []string{"btc", "markets"},
		AuthorID:    authorID,
		Status:      "published",
		PublishDate: now,
		ReadTime:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if mutate != nil {
		mutate(&params)
	}
	article, err := q.CreateArticle(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return article
}

func TestArticleCRUD(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	article := createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Slug = "crud-article"
	})

	if article.ID == 0 {
		t.Fatal("expected non-zero article ID")
	}
	if article.Views != 0 || article.Likes != 0 || article.Dislikes != 0 {
		t.Error("new article counters should start at zero")
	}

	byID, err := q.GetArticleByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if byID.Slug != "crud-article" {
		t.Errorf("slug = %q, want crud-article", byID.Slug)
	}
	if len(byID.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", byID.Tags)
	}

	bySlug, err := q.GetArticleBySlug(ctx, "crud-article")
	if err != nil {
		t.Fatalf("GetArticleBySlug: %v", err)
	}
	if bySlug.ID != article.ID {
		t.Errorf("bySlug.ID = %d, want %d", bySlug.ID, article.ID)
	}

	updated, err := q.UpdateArticle(ctx, store.UpdateArticleParams{
		ID:          article.ID,
		Title:       "Updated Title",
		Slug:        "crud-article",
		Content:     article.Content,
		Excerpt:     article.Excerpt,
		Category:    article.Category,
		Tags:        article.Tags,
		Status:      article.Status,
		PublishDate: article.PublishDate,
		ReadTime:    article.ReadTime,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if updated.Title != "Updated Title" {
		t.Errorf("title = %q, want Updated Title", updated.Title)
	}

	if err := q.DeleteArticle(ctx, article.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if err := q.DeleteArticle(ctx, article.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second delete = %v, want sql.ErrNoRows", err)
	}
	if _, err := q.GetArticleByID(ctx, article.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("get after delete = %v, want sql.ErrNoRows", err)
	}
}

func TestListArticlesFilters(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "published"
		p.Category = "Education"
	})
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "draft"
		p.Category = "Education"
	})
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "published"
		p.Category = "Events"
	})

	published, err := q.ListArticles(ctx, store.ListArticlesParams{
		Filter: store.ArticleFilter{Status: "published"},
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(published) != 2 {
		t.Errorf("published count = %d, want 2", len(published))
	}
	for _, a := range published {
		if a.Content != "" {
			t.Error("list view should omit content")
		}
	}

	education, err := q.ListArticles(ctx, store.ListArticlesParams{
		Filter: store.ArticleFilter{Status: "published", Category: "Education"},
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(education) != 1 {
		t.Errorf("education count = %d, want 1", len(education))
	}

	total, err := q.CountArticles(ctx, store.ArticleFilter{Status: "published"})
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestListArticlesPaginationStable(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	// Identical publish dates force the id tiebreaker to carry the order.
	publishDate := time.Now()
	for i := 0; i < 15; i++ {
		createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
			p.PublishDate = publishDate
		})
	}

	seen := make(map[int64]bool)
	for offset := int64(0); offset < 15; offset += 5 {
		page, err := q.ListArticles(ctx, store.ListArticlesParams{
			Filter: store.ArticleFilter{Status: "published"},
			Sort:   "newest",
			Limit:  5,
			Offset: offset,
		})
		if err != nil {
			t.Fatalf("ListArticles: %v", err)
		}
		if len(page) != 5 {
			t.Fatalf("page at offset %d has %d rows, want 5", offset, len(page))
		}
		for _, a := range page {
			if seen[a.ID] {
				t.Errorf("article %d appeared on two pages", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if len(seen) != 15 {
		t.Errorf("saw %d distinct articles, want 15", len(seen))
	}
}

func TestListTrendingArticles(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	now := time.Now()

	recent := createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.PublishDate = now.Add(-2 * time.Hour)
	})
	old := createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.PublishDate = now.Add(-48 * time.Hour)
	})
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "draft"
		p.PublishDate = now.Add(-1 * time.Hour)
	})

	// Give the old article more views so an unbounded query would rank it first.
	for i := 0; i < 5; i++ {
		if err := q.IncrementArticleViews(ctx, old.ID); err != nil {
			t.Fatalf("IncrementArticleViews: %v", err)
		}
	}

	trending, err := q.ListTrendingArticles(ctx, store.TrendingArticlesParams{
		Since: now.Add(-24 * time.Hour),
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("ListTrendingArticles: %v", err)
	}
	if len(trending) != 1 {
		t.Fatalf("trending count = %d, want 1 (old and draft excluded)", len(trending))
	}
	if trending[0].ID != recent.ID {
		t.Errorf("trending[0].ID = %d, want %d", trending[0].ID, recent.ID)
	}
}

func TestIncrementArticleViews(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	article := createTestArticle(t, q, author.ID, nil)

	for i := 0; i < 3; i++ {
		if err := q.IncrementArticleViews(ctx, article.ID); err != nil {
			t.Fatalf("IncrementArticleViews: %v", err)
		}
	}

	got, err := q.GetArticleByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("views = %d, want 3", got.Views)
	}
}

func TestAdjustArticleReactionsClampsAtZero(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	article := createTestArticle(t, q, author.ID, nil)

	counts, err := q.AdjustArticleReactions(ctx, store.AdjustArticleReactionsParams{
		ID:            article.ID,
		LikesDelta:    -1,
		DislikesDelta: -1,
	})
	if err != nil {
		t.Fatalf("AdjustArticleReactions: %v", err)
	}
	if counts.Likes != 0 || counts.Dislikes != 0 {
		t.Errorf("counts = %+v, want both zero", counts)
	}

	counts, err = q.AdjustArticleReactions(ctx, store.AdjustArticleReactionsParams{
		ID:         article.ID,
		LikesDelta: 1,
	})
	if err != nil {
		t.Fatalf("AdjustArticleReactions: %v", err)
	}
	if counts.Likes != 1 {
		t.Errorf("likes = %d, want 1", counts.Likes)
	}
}

func TestSlugExists(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	article := createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Slug = "existing-slug"
	})

	exists, err := q.SlugExists(ctx, "existing-slug")
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected existing-slug to exist")
	}

	exists, err = q.SlugExists(ctx, "missing-slug")
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("expected missing-slug to not exist")
	}

	// The owning article is excluded from its own uniqueness check.
	exists, err = q.SlugExistsExcluding(ctx, store.SlugExistsExcludingParams{
		Slug: "existing-slug",
		ID:   article.ID,
	})
	if err != nil {
		t.Fatalf("SlugExistsExcluding: %v", err)
	}
	if exists {
		t.Error("slug should not conflict with its own article")
	}
}

func TestPublishScheduledArticle(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	now := time.Now()

	due := createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "scheduled"
		p.ScheduledDate = sql.NullTime{Time: now.Add(-time.Minute), Valid: true}
	})
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) {
		p.Status = "scheduled"
		p.ScheduledDate = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
	})

	dueList, err := q.ListScheduledArticlesDue(ctx, now)
	if err != nil {
		t.Fatalf("ListScheduledArticlesDue: %v", err)
	}
	if len(dueList) != 1 || dueList[0].ID != due.ID {
		t.Fatalf("due list = %v, want exactly the due article", dueList)
	}

	if err := q.PublishScheduledArticle(ctx, store.PublishScheduledArticleParams{
		ID:          due.ID,
		PublishDate: now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("PublishScheduledArticle: %v", err)
	}

	got, err := q.GetArticleByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if got.Status != "published" {
		t.Errorf("status = %q, want published", got.Status)
	}
	if got.ScheduledDate.Valid {
		t.Error("scheduled date should be cleared after publishing")
	}
}

func TestGetArticleStats(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	author := createTestUser(t, q)
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) { p.Status = "published" })
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) { p.Status = "published" })
	createTestArticle(t, q, author.ID, func(p *store.CreateArticleParams) { p.Status = "draft" })

	stats, err := q.GetArticleStats(ctx)
	if err != nil {
		t.Fatalf("GetArticleStats: %v", err)
	}
	if stats.Total != 3 || stats.Published != 2 || stats.Drafts != 1 || stats.Scheduled != 0 {
		t.Errorf("stats = %+v, want total 3, published 2, drafts 1", stats)
	}
}
