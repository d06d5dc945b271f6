// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"
)

// Options selects and configures a cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration
}

// New creates a Redis cache when a URL is configured, otherwise an
// in-memory cache.
func New(opts Options) (Cache, error) {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = time.Minute
	}

	if opts.RedisURL != "" {
		return NewRedisCache(RedisCacheOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
	}

	return NewMemoryCache(opts.DefaultTTL, time.Minute), nil
}
