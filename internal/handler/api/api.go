// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for articles, engagement,
// authentication, newsletter signups and uploads.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/cnews-go/internal/auth"
	"github.com/olegiv/cnews-go/internal/service"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	articles    *service.ArticleService
	ledger      service.ReactionLedger
	newsletter  *service.NewsletterService
	events      *service.EventService
	credentials auth.CredentialSource
	tokens      *auth.TokenManager
	uploadsDir  string
}

// NewHandler creates a new API handler.
func NewHandler(
	articles *service.ArticleService,
	ledger service.ReactionLedger,
	newsletter *service.NewsletterService,
	events *service.EventService,
	credentials auth.CredentialSource,
	tokens *auth.TokenManager,
	uploadsDir string,
) *Handler {
	return &Handler{
		articles:    articles,
		ledger:      ledger,
		newsletter:  newsletter,
		events:      events,
		credentials: credentials,
		tokens:      tokens,
		uploadsDir:  uploadsDir,
	}
}

// Pagination describes the position of a list page within the whole
// collection.
type Pagination struct {
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// Response is the standard API response wrapper.
type Response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Total      *int64            `json:"total,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Data       any               `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// WriteMessage writes a successful JSON response carrying only a message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// WriteList writes a successful list response with count, total and
// pagination attached.
func WriteList(w http.ResponseWriter, data any, count int, total int64, p Pagination) {
	WriteJSON(w, http.StatusOK, Response{
		Success:    true,
		Count:      &count,
		Total:      &total,
		Pagination: &p,
		Data:       data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteValidationError writes a 400 response with per-field messages.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// writeServiceError maps service-layer sentinel errors to HTTP status
// codes, logging only the unexpected ones.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteValidationError(w, ve.Fields)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, notFoundMsg)
	case errors.Is(err, service.ErrUnauthorized):
		WriteUnauthorized(w, "Not authorized to access this route")
	case errors.Is(err, service.ErrForbidden):
		WriteForbidden(w, "Not allowed to access this resource")
	default:
		slog.Error("request failed", "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// decodeJSONBody decodes the request body into dst, answering malformed
// JSON with a 400. Returns false when a response has been written.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return false
	}
	return true
}
