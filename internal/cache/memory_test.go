// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheBasicOperations(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get = %q, want %q", got, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	defer func() { _ = c.Close() }()

	if _, err := c.Get(context.Background(), "absent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get = %v, want ErrCacheMiss", err)
	}
	if c.Misses() != 1 {
		t.Errorf("Misses = %d, want 1", c.Misses())
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set %q: %v", key, err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get %q after Clear = %v, want ErrCacheMiss", key, err)
		}
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice is harmless.
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set on closed = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get on closed = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheValueIsolation(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	original := []byte("immutable")
	if err := c.Set(ctx, "k", original, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	original[0] = 'X'

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("immutable")) {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}

	got[0] = 'Y'
	again, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(again, []byte("immutable")) {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCacheSweeper(t *testing.T) {
	c := NewMemoryCache(time.Minute, 5*time.Millisecond)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.data.Load("short"); ok {
		t.Error("sweeper left an expired entry behind")
	}
}
