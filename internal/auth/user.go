// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Role is a closed enumeration of account roles. Unknown values are
// rejected at the boundary rather than carried as loose strings.
type Role string

// Account roles.
const (
	RoleAdmin      Role = "admin"
	RoleDispatcher Role = "dispatcher"
	RoleResponder  Role = "responder"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDispatcher:
		return RoleDispatcher, nil
	case RoleResponder:
		return RoleResponder, nil
	default:
		return "", oops.Code("AUTH_INVALID_ROLE").
			With("role", s).
			Errorf("unknown role %q", s)
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// usernameRegex restricts usernames to letters, digits, underscores,
// and hyphens.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// phoneRegex matches digits with an optional leading plus sign.
var phoneRegex = regexp.MustCompile(`^\+?[0-9]+$`)

// User is an identity record. PasswordHash is opaque to callers and is
// never included in the public view.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Phone        string
	Address      string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a User, safe to return to callers.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile returns the public view of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ValidUsername reports whether a username is acceptable: 3-50
// characters after trimming, restricted to letters, digits,
// underscores, and hyphens. Total over arbitrary input.
func ValidUsername(username string) bool {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < MinUsernameLength || len(trimmed) > MaxUsernameLength {
		return false
	}
	return usernameRegex.MatchString(trimmed)
}

// ValidEmail reports whether an email is RFC-shaped: a single @ with
// non-empty local and domain parts, and at least one dot in the
// domain. Total over arbitrary input.
func ValidEmail(email string) bool {
	at := strings.Count(email, "@")
	if at != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}

// ValidPhone reports whether a phone number is acceptable. The field
// is optional, so the empty string is valid; non-empty values must be
// digits with an optional leading plus and no separator punctuation.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(phone)
}

// UserDirectory manages user persistence. Create must enforce
// username/email uniqueness atomically at the storage layer and return
// ErrDuplicate when violated.
type UserDirectory interface {
	// Create stores a new user and returns it with the assigned ID.
	Create(ctx context.Context, user *User) (*User, error)

	// FindByID retrieves a user by ID. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByUsername retrieves a user by username (case-sensitive).
	// Returns ErrNotFound if absent.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail retrieves a user by email. Returns ErrNotFound if absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByUsername reports whether a username is taken, across
	// active and inactive users.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether an email is taken, across active
	// and inactive users.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *User) (*User, error)
}
