// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchgrid/authcore/internal/auth"
	"github.com/dispatchgrid/authcore/pkg/errutil"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts known roles", func(t *testing.T) {
		for _, s := range []string{"admin", "dispatcher", "responder"} {
			role, err := auth.ParseRole(s)
			require.NoError(t, err)
			assert.Equal(t, s, role.String())
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		role, err := auth.ParseRole("  Admin ")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := auth.ParseRole("superuser")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_ROLE")
	})

	t.Run("rejects empty role", func(t *testing.T) {
		_, err := auth.ParseRole("")
		assert.Error(t, err)
	})
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, auth.RoleDispatcher.Valid())
	assert.False(t, auth.Role("intruder").Valid())
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"simple username", "alice", true},
		{"underscore and hyphen", "user_name-1", true},
		{"minimum length", "abc", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 51), false},
		{"exactly max length", strings.Repeat("a", 50), true},
		{"contains space", "user name", false},
		{"contains at sign", "user@host", false},
		{"surrounding whitespace trimmed", "  alice  ", true},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ValidUsername(tt.username))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain address", "alice@example.com", true},
		{"subdomain", "ops@mail.example.org", true},
		{"plus tag", "alice+tag@example.com", true},
		{"missing at", "alice.example.com", false},
		{"two ats", "a@b@example.com", false},
		{"empty local part", "@example.com", false},
		{"empty domain", "alice@", false},
		{"domain without dot", "alice@localhost", false},
		{"domain leading dot", "alice@.example.com", false},
		{"domain trailing dot", "alice@example.com.", false},
		{"embedded space", "alice smith@example.com", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ValidEmail(tt.email))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"empty is optional", "", true},
		{"digits only", "5551234567", true},
		{"leading plus", "+15551234567", true},
		{"dashes rejected", "555-123-4567", false},
		{"letters rejected", "CALL-ME", false},
		{"plus in middle", "555+1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ValidPhone(tt.phone))
		})
	}
}

func TestUser_Profile(t *testing.T) {
	now := time.Now()
	user := &auth.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         auth.RoleDispatcher,
		Phone:        "+15551234567",
		Address:      "12 Grid Way",
		PasswordHash: "$argon2id$...",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile := user.Profile()

	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, auth.RoleDispatcher, profile.Role)
	assert.Equal(t, now, profile.CreatedAt)
	assert.True(t, profile.Active)
}
