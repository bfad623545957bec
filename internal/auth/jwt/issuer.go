// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

// Package jwt implements auth.TokenIssuer with HS256-signed JSON Web
// Tokens and a pluggable revocation store.
package jwt

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dispatchgrid/authcore/internal/auth"
)

// Config configures an Issuer.
type Config struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte

	// Issuer and Audience are bound into every token and enforced on
	// verification. Required.
	Issuer   string
	Audience string

	// AccessTTL and RefreshTTL are the token lifetimes. Zero values
	// fall back to the defaults (8h access, 30d refresh).
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// claims is the wire shape of a token payload.
type claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	TokenType string `json:"typ"`
}

// Issuer mints and verifies access and refresh tokens. Revocation
// state lives in the injected auth.RevocationStore.
type Issuer struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    auth.RevocationStore
}

// NewIssuer creates an Issuer. The revocation store is required so a
// revoked token can never validate, even while unexpired.
func NewIssuer(cfg Config, revoked auth.RevocationStore) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing secret is required")
	}
	if cfg.Issuer == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("audience is required")
	}
	if revoked == nil {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("revocation store is required")
	}

	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = auth.DefaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = auth.DefaultRefreshTokenTTL
	}

	return &Issuer{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
	}, nil
}

// IssueAccessToken mints a short-lived access token for the user.
func (i *Issuer) IssueAccessToken(_ context.Context, user *auth.User) (string, error) {
	return i.sign(user, auth.TokenTypeAccess, i.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the user.
func (i *Issuer) IssueRefreshToken(_ context.Context, user *auth.User) (string, error) {
	return i.sign(user, auth.TokenTypeRefresh, i.refreshTTL)
}

func (i *Issuer) sign(user *auth.User, typ auth.TokenType, ttl time.Duration) (string, error) {
	if user == nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("user is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      user.Role.String(),
		TokenType: string(typ),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("token_type", string(typ)).
			Wrap(err)
	}
	return signed, nil
}

// Verify validates a token string: signature, issuer, audience,
// validity window, and revocation state.
func (i *Issuer) Verify(ctx context.Context, tokenString string) (*auth.Claims, error) {
	c, err := i.parse(tokenString, true)
	if err != nil {
		return nil, err
	}
	if i.revoked.IsRevoked(c.TokenID) {
		return nil, oops.Code("TOKEN_REVOKED").Errorf("token has been revoked")
	}
	return c, nil
}

// Decode checks the signature, issuer, and audience but tolerates an
// expired token and ignores revocation state. Logout uses this to
// revoke idempotently.
func (i *Issuer) Decode(_ context.Context, tokenString string) (*auth.Claims, error) {
	return i.parse(tokenString, false)
}

// Revoke marks a token id as unusable until the given expiry.
func (i *Issuer) Revoke(_ context.Context, tokenID string, expiresAt time.Time) {
	i.revoked.Revoke(tokenID, expiresAt)
}

// IsRevoked reports whether a token id has been revoked.
func (i *Issuer) IsRevoked(_ context.Context, tokenID string) bool {
	return i.revoked.IsRevoked(tokenID)
}

func (i *Issuer) parse(tokenString string, enforceExpiry bool) (*auth.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithIssuedAt(),
	}
	if !enforceExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var parsed claims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}
	if !token.Valid && enforceExpiry {
		return nil, oops.Code("TOKEN_INVALID").Errorf("token is not valid")
	}

	// WithoutClaimsValidation skips iss/aud too, so re-check them here.
	if !enforceExpiry {
		if parsed.Issuer != i.issuer {
			return nil, oops.Code("TOKEN_INVALID").Errorf("issuer mismatch")
		}
		if !containsAudience(parsed.Audience, i.audience) {
			return nil, oops.Code("TOKEN_INVALID").Errorf("audience mismatch")
		}
	}

	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").
			With("subject", parsed.Subject).
			Wrap(err)
	}

	role, err := auth.ParseRole(parsed.Role)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}

	typ := auth.TokenType(parsed.TokenType)
	if typ != auth.TokenTypeAccess && typ != auth.TokenTypeRefresh {
		return nil, oops.Code("TOKEN_INVALID").Errorf("unknown token type %q", parsed.TokenType)
	}

	out := &auth.Claims{
		TokenID: parsed.ID,
		UserID:  userID,
		Role:    role,
		Type:    typ,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// Compile-time interface check.
var _ auth.TokenIssuer = (*Issuer)(nil)
