// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is authenticated but not
	// allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates the operation needs an authenticated
	// caller and none was presented.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries per-field validation messages for a rejected
// write. Handlers map it to a 400 response with the field map attached.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first one on repeats.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
