// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "authd", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentPreRunE, "logging must be installed before any subcommand runs")

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "seed-admin")
}

func TestInitLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n  format: text\n"), 0o600))
	configFile = path
	t.Cleanup(func() { configFile = "" })

	require.NoError(t, initLogging())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug),
		"configured level must reach the installed default logger")
}

func TestDatabaseURL_EnvWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-wins/authcore")

	url, err := databaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-wins/authcore", url)
}

func TestSeedAdminCmd_Flags(t *testing.T) {
	cmd := NewSeedAdminCmd()

	username := cmd.Flags().Lookup("username")
	require.NotNil(t, username)
	assert.Equal(t, "admin", username.DefValue)

	for _, name := range []string{"email", "password", "first-name", "last-name", "timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
