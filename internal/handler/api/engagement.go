// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/cnews-go/internal/middleware"
	"github.com/olegiv/cnews-go/internal/store"
)

// react resolves the article ID from the URL and applies the reaction
// through the configured ledger.
func (h *Handler) react(w http.ResponseWriter, r *http.Request, kind string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil || id < 1 {
		WriteBadRequest(w, "Invalid article ID")
		return
	}

	state, err := h.ledger.React(r.Context(), middleware.GetUser(r), id, kind)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	WriteSuccess(w, state)
}

// LikeArticle handles POST /api/articles/{key}/like. PUT is accepted
// as an alias.
func (h *Handler) LikeArticle(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, store.ReactionLike)
}

// DislikeArticle handles POST /api/articles/{key}/dislike. PUT is
// accepted as an alias.
func (h *Handler) DislikeArticle(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, store.ReactionDislike)
}
