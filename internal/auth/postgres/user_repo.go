// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

// Package postgres provides pgx-backed implementations of the auth
// collaborator contracts.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/dispatchgrid/authcore/internal/auth"
)

// querier is the subset of pgxpool.Pool the repositories use. Tests
// substitute a pgxmock pool.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, first_name, last_name, role,
	       phone, address, password_hash, active, created_at, updated_at`

// UserRepository implements auth.UserDirectory using PostgreSQL.
// Uniqueness of username and email is enforced by unique indexes, so
// Create is an atomic check-and-insert.
type UserRepository struct {
	db querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user and returns it with the assigned id and
// timestamps. A unique violation maps to auth.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (
			username, email, first_name, last_name, role,
			phone, address, password_hash, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role.String(),
		user.Phone,
		user.Address,
		user.PasswordHash,
		user.Active,
	)

	created := *user
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("USER_DUPLICATE").
				With("username", user.Username).
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrDuplicate)
		}
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return &created, nil
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_BY_ID_FAILED").
			With("operation", "find user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username (case-sensitive).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_BY_USERNAME_FAILED").
			With("operation", "find user by username").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_BY_EMAIL_FAILED").
			With("operation", "find user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// ExistsByUsername reports whether a username is taken, across active
// and inactive users.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").
			With("operation", "check username existence").
			With("username", username).
			Wrap(err)
	}
	return exists, nil
}

// ExistsByEmail reports whether an email is taken, across active and
// inactive users.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))
	`, email).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").
			With("operation", "check email existence").
			With("email", email).
			Wrap(err)
	}
	return exists, nil
}

// Update persists changes to an existing user. A unique violation on
// email maps to auth.ErrDuplicate.
func (r *UserRepository) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET
			email = $2,
			first_name = $3,
			last_name = $4,
			role = $5,
			phone = $6,
			address = $7,
			password_hash = $8,
			active = $9,
			updated_at = $10
		WHERE id = $1
		RETURNING updated_at
	`,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role.String(),
		user.Phone,
		user.Address,
		user.PasswordHash,
		user.Active,
		time.Now(),
	)

	updated := *user
	if err := row.Scan(&updated.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("id", user.ID).
				Wrap(auth.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("USER_DUPLICATE").
				With("id", user.ID).
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrDuplicate)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", user.ID).
			Wrap(err)
	}
	return &updated, nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		u       auth.User
		roleStr string
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&roleStr,
		&u.Phone,
		&u.Address,
		&u.PasswordHash,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	role, err := auth.ParseRole(roleStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ROLE").
			With("role", roleStr).
			Wrap(err)
	}
	u.Role = role

	return &u, nil
}

// Compile-time interface check.
var _ auth.UserDirectory = (*UserRepository)(nil)
