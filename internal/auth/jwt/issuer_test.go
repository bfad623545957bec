// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package jwt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchgrid/authcore/internal/auth"
	"github.com/dispatchgrid/authcore/internal/auth/jwt"
	"github.com/dispatchgrid/authcore/pkg/errutil"
)

func testConfig() jwt.Config {
	return jwt.Config{
		Secret:   []byte("test-secret-at-least-32-bytes-long"),
		Issuer:   "dispatchgrid",
		Audience: "dispatchgrid-clients",
	}
}

func newTestIssuer(t *testing.T, cfg jwt.Config) (*jwt.Issuer, *auth.Denylist) {
	t.Helper()
	denylist := auth.NewDenylist(0)
	t.Cleanup(denylist.Close)
	issuer, err := jwt.NewIssuer(cfg, denylist)
	require.NoError(t, err)
	return issuer, denylist
}

func testUser() *auth.User {
	return &auth.User{ID: 42, Username: "alice", Role: auth.RoleDispatcher, Active: true}
}

func TestNewIssuer(t *testing.T) {
	denylist := auth.NewDenylist(0)
	t.Cleanup(denylist.Close)

	t.Run("requires a secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Secret = nil
		_, err := jwt.NewIssuer(cfg, denylist)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})

	t.Run("requires an issuer", func(t *testing.T) {
		cfg := testConfig()
		cfg.Issuer = ""
		_, err := jwt.NewIssuer(cfg, denylist)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})

	t.Run("requires an audience", func(t *testing.T) {
		cfg := testConfig()
		cfg.Audience = ""
		_, err := jwt.NewIssuer(cfg, denylist)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})

	t.Run("requires a revocation store", func(t *testing.T) {
		_, err := jwt.NewIssuer(testConfig(), nil)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})
}

func TestIssuer_RoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("access token round-trips its claims", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())

		token, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := issuer.Verify(ctx, token)
		require.NoError(t, err)
		assert.NotEmpty(t, claims.TokenID)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, auth.RoleDispatcher, claims.Role)
		assert.Equal(t, auth.TokenTypeAccess, claims.Type)
		assert.WithinDuration(t, time.Now().Add(auth.DefaultAccessTokenTTL), claims.ExpiresAt, time.Minute)
	})

	t.Run("refresh token carries the refresh type", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())

		token, err := issuer.IssueRefreshToken(ctx, testUser())
		require.NoError(t, err)

		claims, err := issuer.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenTypeRefresh, claims.Type)
		assert.WithinDuration(t, time.Now().Add(auth.DefaultRefreshTokenTTL), claims.ExpiresAt, time.Minute)
	})

	t.Run("each token gets a unique id", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())

		t1, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)
		t2, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		c1, err := issuer.Verify(ctx, t1)
		require.NoError(t, err)
		c2, err := issuer.Verify(ctx, t2)
		require.NoError(t, err)
		assert.NotEqual(t, c1.TokenID, c2.TokenID)
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())
		_, err := issuer.IssueAccessToken(ctx, nil)
		errutil.AssertErrorCode(t, err, "TOKEN_ISSUE_FAILED")
	})
}

func TestIssuer_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := testConfig()
		other.Secret = []byte("a-completely-different-signing-key")
		otherIssuer, _ := newTestIssuer(t, other)

		token, err := otherIssuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		issuer, _ := newTestIssuer(t, testConfig())
		_, err = issuer.Verify(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects a token from another issuer", func(t *testing.T) {
		other := testConfig()
		other.Issuer = "someone-else"
		otherIssuer, _ := newTestIssuer(t, other)

		token, err := otherIssuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		issuer, _ := newTestIssuer(t, testConfig())
		_, err = issuer.Verify(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects a token for another audience", func(t *testing.T) {
		other := testConfig()
		other.Audience = "other-clients"
		otherIssuer, _ := newTestIssuer(t, other)

		token, err := otherIssuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		issuer, _ := newTestIssuer(t, testConfig())
		_, err = issuer.Verify(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())
		_, err := issuer.Verify(ctx, "not.a.token")
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTTL = time.Millisecond
		issuer, _ := newTestIssuer(t, cfg)

		token, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = issuer.Verify(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())

		token, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)
		claims, err := issuer.Verify(ctx, token)
		require.NoError(t, err)

		issuer.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
		assert.True(t, issuer.IsRevoked(ctx, claims.TokenID))

		_, err = issuer.Verify(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_REVOKED")
	})
}

func TestIssuer_Decode(t *testing.T) {
	ctx := context.Background()

	t.Run("tolerates an expired token", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTTL = time.Millisecond
		issuer, _ := newTestIssuer(t, cfg)

		token, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		claims, err := issuer.Decode(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("tolerates a revoked token", func(t *testing.T) {
		issuer, _ := newTestIssuer(t, testConfig())

		token, err := issuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)
		claims, err := issuer.Verify(ctx, token)
		require.NoError(t, err)

		issuer.Revoke(ctx, claims.TokenID, claims.ExpiresAt)

		decoded, err := issuer.Decode(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, claims.TokenID, decoded.TokenID)
	})

	t.Run("still rejects a bad signature", func(t *testing.T) {
		other := testConfig()
		other.Secret = []byte("a-completely-different-signing-key")
		otherIssuer, _ := newTestIssuer(t, other)

		token, err := otherIssuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		issuer, _ := newTestIssuer(t, testConfig())
		_, err = issuer.Decode(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("still enforces issuer and audience", func(t *testing.T) {
		other := testConfig()
		other.Issuer = "someone-else"
		otherIssuer, _ := newTestIssuer(t, other)

		token, err := otherIssuer.IssueAccessToken(ctx, testUser())
		require.NoError(t, err)

		issuer, _ := newTestIssuer(t, testConfig())
		_, err = issuer.Decode(ctx, token)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})
}
