// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/olegiv/cnews-go/internal/auth"
	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key for the authenticated user.
const ContextKeyUser ContextKey = "user"

// APIError is the JSON error body written by middleware rejections. It
// matches the envelope the handlers use.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIError{Success: false, Message: message})
}

// Authenticator resolves bearer tokens and auth cookies into users.
type Authenticator struct {
	tokens      *auth.TokenManager
	queries     *store.Queries
	staticAdmin *model.User
}

// NewAuthenticator creates an Authenticator. staticAdmin, when non-nil,
// is the account substituted for tokens that carry the admin role but
// no subject, as issued for statically configured admins.
func NewAuthenticator(tokens *auth.TokenManager, db *sql.DB, staticAdmin *model.User) *Authenticator {
	return &Authenticator{
		tokens:      tokens,
		queries:     store.New(db),
		staticAdmin: staticAdmin,
	}
}

// extractToken pulls the raw token from the Authorization header,
// falling back to the auth cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(auth.TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// resolve verifies the request's token and loads the matching user.
// A nil user with a nil error means the request is anonymous.
func (a *Authenticator) resolve(r *http.Request) (*model.User, error) {
	raw := extractToken(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID()
	if userID == 0 {
		if a.staticAdmin != nil && claims.Role == model.RoleAdmin {
			u := *a.staticAdmin
			return &u, nil
		}
		return nil, auth.ErrInvalidToken
	}

	row, err := a.queries.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	return &model.User{
		ID:          row.ID,
		Email:       row.Email,
		Role:        row.Role,
		Name:        row.Name,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		LastLoginAt: row.LastLoginAt,
	}, nil
}

// RequireAuth creates middleware that rejects requests without a valid
// token.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.resolve(r)
			if err != nil || user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireAdmin creates middleware that additionally requires the admin
// role. Authenticated non-admins get a 403, not a 401.
func (a *Authenticator) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.resolve(r)
			if err != nil || user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			if !user.IsAdmin() {
				WriteAPIError(w, http.StatusForbidden, "Admin role required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth creates middleware that loads the user into context when
// a valid token is present and passes the request through otherwise.
func (a *Authenticator) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.resolve(r)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, *user)
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}
