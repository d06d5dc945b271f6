// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/olegiv/cnews-go/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenIssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Issue(42, model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID() != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID())
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := tm.Issue(1, model.RoleEditor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, err := tm.Issue(1, model.RoleEditor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify expired = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tm.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestZeroTTLDefaults(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)
	if tm.TTL() != DefaultTokenTTL {
		t.Errorf("TTL = %v, want %v", tm.TTL(), DefaultTokenTTL)
	}
}
