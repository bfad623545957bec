// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/dispatchgrid/authcore/internal/auth"
	"github.com/dispatchgrid/authcore/internal/auth/postgres"
)

// Default timeout for the seed-admin command.
const defaultSeedTimeout = 30 * time.Second

// seedAdminConfig holds flags for the seed-admin command.
type seedAdminConfig struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
	timeout   time.Duration
}

// NewSeedAdminCmd creates the seed-admin subcommand.
func NewSeedAdminCmd() *cobra.Command {
	cfg := &seedAdminConfig{}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the initial administrator account",
		Long: `Creates an administrator account for bootstrapping a new deployment.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedAdmin(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "admin", "administrator username")
	cmd.Flags().StringVar(&cfg.email, "email", "", "administrator email (required)")
	cmd.Flags().StringVar(&cfg.password, "password", "", "administrator password (required)")
	cmd.Flags().StringVar(&cfg.firstName, "first-name", "System", "administrator first name")
	cmd.Flags().StringVar(&cfg.lastName, "last-name", "Administrator", "administrator last name")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeedAdmin(cmd *cobra.Command, _ []string, cfg *seedAdminConfig) error {
	if cfg.email == "" || cfg.password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--email and --password are required")
	}
	if !auth.ValidUsername(cfg.username) {
		return oops.Code("CONFIG_INVALID").With("username", cfg.username).Errorf("username is not valid")
	}
	if !auth.ValidEmail(cfg.email) {
		return oops.Code("CONFIG_INVALID").With("email", cfg.email).Errorf("email is not valid")
	}
	if policyOK, violations := auth.DefaultPasswordPolicy().Validate(cfg.password); !policyOK {
		return oops.Code("CONFIG_INVALID").
			With("violations", violations).
			Errorf("password does not meet requirements")
	}

	url, err := databaseURL()
	if err != nil {
		return err
	}
	if url == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := connectWithRetry(ctx, url)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	hash, err := auth.NewArgon2idHasher().Hash(cfg.password)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash password").Wrap(err)
	}

	users := postgres.NewUserRepository(pool)
	admin, err := users.Create(ctx, &auth.User{
		Username:     cfg.username,
		Email:        cfg.email,
		FirstName:    cfg.firstName,
		LastName:     cfg.lastName,
		Role:         auth.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			cmd.Println("Administrator account already exists, skipping seed")
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create administrator").Wrap(err)
	}

	cmd.Printf("Administrator %q created (id %d)\n", admin.Username, admin.ID)
	return nil
}

// connectWithRetry dials the database with bounded exponential backoff
// so a freshly started database container has time to come up.
func connectWithRetry(ctx context.Context, url string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.New(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // Caller wraps with context-specific info
	}
	return pool, nil
}
