// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/cnews-go/internal/service"
)

// SubscribeRequest represents the request body for a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /api/newsletter.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			WriteError(w, http.StatusConflict, "Email is already subscribed")
			return
		}
		writeServiceError(w, err, "Subscriber not found")
		return
	}

	WriteCreated(w, map[string]string{"message": "Subscribed successfully"})
}

// Unsubscribe handles DELETE /api/newsletter/{email}.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.newsletter.Unsubscribe(r.Context(), email); err != nil {
		writeServiceError(w, err, "Subscriber not found")
		return
	}

	WriteMessage(w, "Unsubscribed successfully")
}
