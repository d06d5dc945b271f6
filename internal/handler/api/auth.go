// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/cnews-go/internal/auth"
	"github.com/olegiv/cnews-go/internal/middleware"
	"github.com/olegiv/cnews-go/internal/model"
)

// LoginRequest represents the request body for a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

func userToResponse(u model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Login handles POST /api/auth/login. A successful login returns the
// token in the body and also sets it as an HTTP-only cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.credentials.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			if h.events != nil {
				_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
					"Failed login attempt", nil, map[string]any{"email": email})
			}
			WriteUnauthorized(w, "Invalid credentials")
			return
		}
		writeServiceError(w, err, "")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	if h.events != nil {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged in", &user.ID, map[string]any{"email": user.Email})
	}

	WriteSuccess(w, map[string]any{
		"token": token,
		"user":  userToResponse(user),
	})
}

// Logout handles POST /api/auth/logout by expiring the auth cookie.
// Bearer tokens simply lapse at their expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	WriteMessage(w, "Logged out")
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authorized to access this route")
		return
	}
	WriteSuccess(w, userToResponse(*user))
}
