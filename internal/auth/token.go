// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"context"
	"time"
)

// TokenType distinguishes the two token flavors.
type TokenType string

// Token flavors.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token lifetime defaults.
const (
	DefaultAccessTokenTTL  = 8 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims are the decoded contents of a bearer token.
type Claims struct {
	// TokenID is the unique identifier used for revocation.
	TokenID string

	// UserID is the subject of the token.
	UserID int64

	// Role is the subject's role at issuance time.
	Role Role

	// Type is the token flavor.
	Type TokenType

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair bundles a short-lived access token and a long-lived
// refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenIssuer signs, verifies, and revokes bearer tokens. A token is
// valid only if the signature verifies, issuer and audience match, the
// current time is within its validity window, and it has not been
// revoked.
type TokenIssuer interface {
	// IssueAccessToken mints a short-lived access token for the user.
	IssueAccessToken(ctx context.Context, user *User) (string, error)

	// IssueRefreshToken mints a long-lived refresh token for the user.
	IssueRefreshToken(ctx context.Context, user *User) (string, error)

	// Verify validates a token string and returns its claims. Any
	// failure (bad signature, wrong issuer/audience, expired, revoked)
	// returns an error.
	Verify(ctx context.Context, token string) (*Claims, error)

	// Decode checks the signature and returns the claims without
	// enforcing expiry or revocation. Used by logout, which must be
	// able to revoke an already-expired token idempotently.
	Decode(ctx context.Context, token string) (*Claims, error)

	// Revoke marks a token id as unusable until the given expiry.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time)

	// IsRevoked reports whether a token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) bool
}
