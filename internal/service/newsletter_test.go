// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/cnews-go/internal/service"
	"github.com/olegiv/cnews-go/internal/testutil"
)

func TestNewsletterLifecycle(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewNewsletterService(db)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "Reader@Example.com"))

	// Repeat signup of an active address conflicts. The address was
	// normalized to lowercase on the way in.
	err := svc.Subscribe(ctx, "reader@example.com")
	assert.ErrorIs(t, err, service.ErrAlreadySubscribed)

	require.NoError(t, svc.Unsubscribe(ctx, "reader@example.com"))

	// Unsubscribing twice reports not found.
	err = svc.Unsubscribe(ctx, "reader@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)

	// An unsubscribed address can sign up again.
	require.NoError(t, svc.Subscribe(ctx, "reader@example.com"))
}

func TestNewsletterValidation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewNewsletterService(db)
	ctx := context.Background()

	var ve *service.ValidationError
	for _, email := range []string{"", "not-an-email", "missing@tld"} {
		err := svc.Subscribe(ctx, email)
		require.Error(t, err, "email %q", email)
		assert.ErrorAs(t, err, &ve, "email %q", email)
	}

	err := svc.Unsubscribe(ctx, "never-signed-up@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
