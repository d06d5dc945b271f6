// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Subscriber is a stored newsletter signup row.
type Subscriber struct {
	ID        int64
	Email     string
	IsActive  int64
	CreatedAt time.Time
}

const subscriberColumns = `id, email, is_active, created_at`

func scanSubscriber(row rowScanner) (Subscriber, error) {
	var s Subscriber
	err := row.Scan(&s.ID, &s.Email, &s.IsActive, &s.CreatedAt)
	return s, err
}

// CreateSubscriberParams holds the column values for a new subscriber.
type CreateSubscriberParams struct {
	Email     string
	CreatedAt time.Time
}

// CreateSubscriber inserts an active subscriber and returns the row.
func (q *Queries) CreateSubscriber(ctx context.Context, arg CreateSubscriberParams) (Subscriber, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (email, is_active, created_at)
		VALUES (?, 1, ?)
		RETURNING `+subscriberColumns,
		arg.Email, arg.CreatedAt,
	)
	return scanSubscriber(row)
}

// GetSubscriberByEmail returns the subscriber with the given email.
func (q *Queries) GetSubscriberByEmail(ctx context.Context, email string) (Subscriber, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE email = ?`, email)
	return scanSubscriber(row)
}

// ReactivateSubscriber flips an unsubscribed address back to active.
func (q *Queries) ReactivateSubscriber(ctx context.Context, email string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE newsletter_subscribers SET is_active = 1 WHERE email = ?`, email)
	return err
}

// DeactivateSubscriber marks an address as unsubscribed without
// deleting the row.
func (q *Queries) DeactivateSubscriber(ctx context.Context, email string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE newsletter_subscribers SET is_active = 0 WHERE email = ?`, email)
	return err
}

// ListActiveSubscribers returns active signups, newest first.
func (q *Queries) ListActiveSubscribers(ctx context.Context) ([]Subscriber, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers
		 WHERE is_active = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
