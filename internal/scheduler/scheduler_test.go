// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
	"github.com/olegiv/cnews-go/internal/testutil"
)

func createScheduledArticle(t *testing.T, db *sql.DB, authorID int64, scheduledAt time.Time) store.Article {
	t.Helper()
	now := time.Now()
	article, err := store.New(db).CreateArticle(context.Background(), store.CreateArticleParams{
		Title:       "Scheduled",
		Slug:        fmt.Sprintf("scheduled-%d", now.UnixNano()),
		Content:     "Body.",
		Excerpt:     "Body.",
		Category:    "Events",
		Status:      model.ArticleStatusScheduled,
		AuthorID:    authorID,
		PublishDate: now,
		ScheduledDate: sql.NullTime{
			Time:  scheduledAt,
			Valid: true,
		},
		ReadTime:  1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return article
}

func TestProcessScheduledArticles(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	queries := store.New(db)

	now := time.Now()
	user, err := queries.CreateUser(ctx, store.CreateUserParams{
		Email:        "author@test.local",
		PasswordHash: "x",
		Role:         model.RoleEditor,
		Name:         "Author",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	due := createScheduledArticle(t, db, user.ID, now.Add(-time.Minute))
	future := createScheduledArticle(t, db, user.ID, now.Add(time.Hour))

	s := New(db, testutil.TestLogger())
	if err := s.processScheduledArticles(); err != nil {
		t.Fatalf("processScheduledArticles: %v", err)
	}

	published, err := queries.GetArticleByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if published.Status != model.ArticleStatusPublished {
		t.Errorf("due article status = %q, want published", published.Status)
	}
	if published.ScheduledDate.Valid {
		t.Error("due article kept its scheduled date")
	}
	if published.PublishDate.Before(now.Add(-time.Second)) {
		t.Errorf("publish date not restamped: %v", published.PublishDate)
	}

	pending, err := queries.GetArticleByID(ctx, future.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if pending.Status != model.ArticleStatusScheduled {
		t.Errorf("future article status = %q, want still scheduled", pending.Status)
	}

	// A second pass finds nothing left to publish.
	if err := s.processScheduledArticles(); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	events, err := queries.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want one publish event", len(events))
	}
	if events[0].Category != model.EventCategoryArticle {
		t.Errorf("event category = %q, want article", events[0].Category)
	}
}
