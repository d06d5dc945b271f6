// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler promotes scheduled articles to published once
// their scheduled date arrives.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
)

// Scheduler handles scheduled tasks like publishing articles.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with a job that checks for due articles
// every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.processScheduledArticles(); err != nil {
			s.logger.Error("failed to process scheduled articles", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// processScheduledArticles publishes every article whose scheduled date
// has passed.
func (s *Scheduler) processScheduledArticles() error {
	ctx := context.Background()
	queries := store.New(s.db)

	now := time.Now()
	articles, err := queries.ListScheduledArticlesDue(ctx, now)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		return nil
	}

	s.logger.Info("processing scheduled articles", "count", len(articles))

	for _, article := range articles {
		if err := s.publishArticle(ctx, queries, article, now); err != nil {
			s.logger.Error("failed to publish scheduled article",
				"article_id", article.ID,
				"article_title", article.Title,
				"error", err,
			)
			continue
		}

		s.logger.Info("published scheduled article",
			"article_id", article.ID,
			"article_title", article.Title,
			"scheduled_at", article.ScheduledDate.Time,
		)
	}

	return nil
}

// publishArticle publishes a single scheduled article and logs the event.
func (s *Scheduler) publishArticle(ctx context.Context, queries *store.Queries, article store.Article, now time.Time) error {
	err := queries.PublishScheduledArticle(ctx, store.PublishScheduledArticleParams{
		ID:          article.ID,
		PublishDate: now,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}

	metadata := map[string]any{
		"article_id":   article.ID,
		"title":        article.Title,
		"slug":         article.Slug,
		"scheduled_at": article.ScheduledDate.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	}
	metadataJSON, _ := json.Marshal(metadata)

	_, err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryArticle,
		Message:   "Article published automatically by scheduler: " + article.Title,
		UserID:    sql.NullInt64{},
		Metadata:  string(metadataJSON),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("failed to log scheduled publish event", "error", err)
	}

	return nil
}
