// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
)

// ErrAlreadySubscribed indicates the address already holds an active
// subscription.
var ErrAlreadySubscribed = errors.New("already subscribed")

// NewsletterService manages newsletter signups.
type NewsletterService struct {
	queries *store.Queries
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(db *sql.DB) *NewsletterService {
	return &NewsletterService{queries: store.New(db)}
}

// Subscribe records an email address, reactivating it if it had
// unsubscribed earlier. Addresses are normalized to lowercase.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !model.IsValidEmail(email) {
		ve := NewValidationError()
		ve.Add("email", "a valid email address is required")
		return ve
	}

	existing, err := s.queries.GetSubscriberByEmail(ctx, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.queries.CreateSubscriber(ctx, store.CreateSubscriberParams{
			Email:     email,
			CreatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("creating subscriber: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("fetching subscriber: %w", err)
	case existing.IsActive == 1:
		return ErrAlreadySubscribed
	default:
		if err := s.queries.ReactivateSubscriber(ctx, email); err != nil {
			return fmt.Errorf("reactivating subscriber: %w", err)
		}
		return nil
	}
}

// Unsubscribe deactivates an address. Unknown addresses map to
// ErrNotFound.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.queries.GetSubscriberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching subscriber: %w", err)
	}
	if existing.IsActive == 0 {
		return ErrNotFound
	}

	if err := s.queries.DeactivateSubscriber(ctx, email); err != nil {
		return fmt.Errorf("deactivating subscriber: %w", err)
	}
	return nil
}
