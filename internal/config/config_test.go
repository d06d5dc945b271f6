// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CNEWS_JWT_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.ReactionMode != ReactionModeToggle {
		t.Errorf("ReactionMode = %q, want toggle", cfg.ReactionMode)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment = false, want true by default")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache = true without CNEWS_REDIS_URL")
	}
	if cfg.UseStaticAdmin() {
		t.Error("UseStaticAdmin = true without credentials")
	}
	if cfg.CacheTTL != 60 {
		t.Errorf("CacheTTL = %d, want 60", cfg.CacheTTL)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("CNEWS_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without a JWT secret")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("CNEWS_JWT_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted a short JWT secret")
	}
	if !strings.Contains(err.Error(), "CNEWS_JWT_SECRET") {
		t.Errorf("error %q does not name the variable", err)
	}
}

func TestLoadReactionMode(t *testing.T) {
	setRequired(t)

	t.Setenv("CNEWS_REACTION_MODE", "Counter")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReactionMode != ReactionModeCounter {
		t.Errorf("ReactionMode = %q, want normalized counter", cfg.ReactionMode)
	}

	t.Setenv("CNEWS_REACTION_MODE", "upvote")
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an unknown reaction mode")
	}
}

func TestUseStaticAdmin(t *testing.T) {
	setRequired(t)
	t.Setenv("CNEWS_ADMIN_EMAIL", "root@site.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UseStaticAdmin() {
		t.Error("UseStaticAdmin = true with only an email")
	}

	t.Setenv("CNEWS_ADMIN_PASSWORD", "hunter22")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.UseStaticAdmin() {
		t.Error("UseStaticAdmin = false with both credentials set")
	}
}
