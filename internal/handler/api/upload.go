// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Upload limits
const (
	MaxUploadSize  = 5 * 1024 * 1024 // 5MB
	ThumbnailWidth = 300
)

// allowedImageExtensions is the set of accepted file extensions.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Upload handles POST /api/upload. It accepts a single image in the
// "image" multipart field, stores it under a generated name and writes
// a fixed-width thumbnail next to it.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Image must be smaller than %d bytes", MaxUploadSize))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteBadRequest(w, "An image file is required in the \"image\" field")
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		WriteBadRequest(w, "Unsupported image type")
		return
	}

	// Decoding up front both validates the payload is a real image and
	// yields the source for the thumbnail.
	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		WriteBadRequest(w, "File is not a valid image")
		return
	}

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		writeServiceError(w, fmt.Errorf("creating uploads dir: %w", err), "")
		return
	}

	name := uuid.New().String()
	originalName := name + ext
	thumbName := name + "_thumb" + ext

	if err := imaging.Save(img, filepath.Join(h.uploadsDir, originalName), imaging.JPEGQuality(85)); err != nil {
		writeServiceError(w, fmt.Errorf("saving image: %w", err), "")
		return
	}

	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(h.uploadsDir, thumbName), imaging.JPEGQuality(85)); err != nil {
		writeServiceError(w, fmt.Errorf("saving thumbnail: %w", err), "")
		return
	}

	WriteCreated(w, map[string]string{
		"url":          "/uploads/" + originalName,
		"thumbnailUrl": "/uploads/" + thumbName,
	})
}
