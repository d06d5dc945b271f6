// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
)

// ErrBadCredentials is returned for any unknown email or wrong password.
// Callers must not distinguish the two cases in responses.
var ErrBadCredentials = errors.New("invalid credentials")

// CredentialSource authenticates a login attempt. It is injected into
// the auth handler at construction so business logic never reads
// ambient process state.
type CredentialSource interface {
	// Authenticate returns the account for a valid email/password pair,
	// or ErrBadCredentials.
	Authenticate(ctx context.Context, email, password string) (model.User, error)
}

// StoreCredentials authenticates against the users table and stamps
// last_login_at on success.
type StoreCredentials struct {
	queries *store.Queries
}

// NewStoreCredentials creates a DB-backed credential source.
func NewStoreCredentials(db *sql.DB) *StoreCredentials {
	return &StoreCredentials{queries: store.New(db)}
}

// Authenticate implements CredentialSource.
func (s *StoreCredentials) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, err
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrBadCredentials
	}

	now := time.Now()
	_ = s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		ID:          user.ID,
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
	})

	return model.User{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Name:        user.Name,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
	}, nil
}

// StaticCredentials authenticates a single fixed admin account. Used by
// deployments that configure one admin out of band instead of managing
// a user table.
type StaticCredentials struct {
	email    string
	password string
}

// NewStaticCredentials creates a fixed-credential source.
func NewStaticCredentials(email, password string) *StaticCredentials {
	return &StaticCredentials{email: email, password: password}
}

// Authenticate implements CredentialSource. The synthetic account has
// no id; tokens issued from it carry only the admin role.
func (s *StaticCredentials) Authenticate(_ context.Context, email, password string) (model.User, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !emailOK || !passOK {
		return model.User{}, ErrBadCredentials
	}
	return model.User{
		Email: s.email,
		Role:  model.RoleAdmin,
		Name:  "Administrator",
	}, nil
}
