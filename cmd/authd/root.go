// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispatchgrid/authcore/internal/config"
	"github.com/dispatchgrid/authcore/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "DispatchGrid authentication service tooling",
		Long: `authd manages the DispatchGrid authentication database:
schema migrations and initial administrator bootstrap.`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initLogging()
		},
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedAdminCmd())

	return cmd
}

// initLogging installs the default logger from the config file's log
// section so every subcommand (and errutil.LogError) writes through
// the service handler.
func initLogging() error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	logging.SetDefault(logging.Options{
		Service: "authd",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})
	return nil
}

// databaseURL resolves the database URL from the environment or the
// config file, in that order.
func databaseURL() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return "", err
	}
	return cfg.Database.URL, nil
}
