// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/cnews-go/internal/auth"
	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/testutil"
)

func TestStoreCredentials(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := auth.Seed(ctx, db, "admin@test.local", "seed-password"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	creds := auth.NewStoreCredentials(db)

	user, err := creds.Authenticate(ctx, "admin@test.local", "seed-password")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.ID == 0 {
		t.Error("expected a stored user id")
	}
	if !user.LastLoginAt.Valid {
		t.Error("expected last login to be stamped")
	}

	// Wrong password and unknown email map to the same error.
	if _, err := creds.Authenticate(ctx, "admin@test.local", "wrong"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("wrong password = %v, want ErrBadCredentials", err)
	}
	if _, err := creds.Authenticate(ctx, "nobody@test.local", "seed-password"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("unknown email = %v, want ErrBadCredentials", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := auth.Seed(ctx, db, "admin@test.local", "first"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := auth.Seed(ctx, db, "admin@test.local", "second"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// The original password still works; the second seed was a no-op.
	creds := auth.NewStoreCredentials(db)
	if _, err := creds.Authenticate(ctx, "admin@test.local", "first"); err != nil {
		t.Errorf("Authenticate after reseed: %v", err)
	}
}

func TestStaticCredentials(t *testing.T) {
	creds := auth.NewStaticCredentials("root@site.local", "s3cret")
	ctx := context.Background()

	user, err := creds.Authenticate(ctx, "root@site.local", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.ID != 0 {
		t.Errorf("static account id = %d, want 0", user.ID)
	}

	if _, err := creds.Authenticate(ctx, "root@site.local", "nope"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("wrong password = %v, want ErrBadCredentials", err)
	}
	if _, err := creds.Authenticate(ctx, "other@site.local", "s3cret"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("wrong email = %v, want ErrBadCredentials", err)
	}
}
