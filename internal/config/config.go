// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Reaction modes select the engagement strategy at deployment time.
const (
	ReactionModeCounter = "counter"
	ReactionModeToggle  = "toggle"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"CNEWS_DB_PATH" envDefault:"./data/cnews.db"`
	JWTSecret  string `env:"CNEWS_JWT_SECRET,required"`
	ServerHost string `env:"CNEWS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CNEWS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CNEWS_ENV" envDefault:"development"`
	LogLevel   string `env:"CNEWS_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"CNEWS_UPLOADS_DIR" envDefault:"./uploads"`

	// Engagement strategy: "toggle" tracks one reaction per user,
	// "counter" accumulates anonymous counters.
	ReactionMode string `env:"CNEWS_REACTION_MODE" envDefault:"toggle"`

	// Static admin credentials. When both are set the Auth Gate uses
	// them instead of the users table.
	AdminEmail    string `env:"CNEWS_ADMIN_EMAIL"`
	AdminPassword string `env:"CNEWS_ADMIN_PASSWORD"`

	// Cache configuration
	RedisURL    string `env:"CNEWS_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"CNEWS_CACHE_PREFIX" envDefault:"cnews:"` // Redis key prefix
	CacheTTL    int    `env:"CNEWS_CACHE_TTL" envDefault:"60"`        // Listing cache TTL in seconds

	// Seeding configuration
	DoSeed bool `env:"CNEWS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// MinJWTSecretLength is the minimum required length for the signing secret.
const MinJWTSecretLength = 32

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseStaticAdmin returns true if fixed admin credentials are configured.
func (c Config) UseStaticAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("CNEWS_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	switch strings.ToLower(cfg.ReactionMode) {
	case ReactionModeCounter, ReactionModeToggle:
		cfg.ReactionMode = strings.ToLower(cfg.ReactionMode)
	default:
		return nil, fmt.Errorf("CNEWS_REACTION_MODE must be %q or %q, got %q",
			ReactionModeCounter, ReactionModeToggle, cfg.ReactionMode)
	}

	return cfg, nil
}
