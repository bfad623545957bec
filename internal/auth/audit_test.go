// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchgrid/authcore/internal/auth"
)

func TestNewAuditEntry(t *testing.T) {
	entry := auth.NewAuditEntry(7, auth.AuditActionLogin, "login succeeded", "10.0.0.1", auth.AuditInfo)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, auth.AuditActionLogin, entry.Action)
	assert.Equal(t, "10.0.0.1", entry.ClientKey)
	assert.Equal(t, auth.AuditInfo, entry.Severity)
	assert.False(t, entry.CreatedAt.IsZero())

	second := auth.NewAuditEntry(7, auth.AuditActionLogin, "login succeeded", "10.0.0.1", auth.AuditInfo)
	assert.NotEqual(t, entry.ID, second.ID)
}

func TestSlogAuditSink_Record(t *testing.T) {
	record := func(t *testing.T, entry auth.AuditEntry) map[string]any {
		t.Helper()
		var buf bytes.Buffer
		sink := auth.NewSlogAuditSink(slog.New(slog.NewJSONHandler(&buf, nil)))
		require.NoError(t, sink.Record(context.Background(), entry))

		var logged map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logged))
		return logged
	}

	t.Run("writes entry fields as structured attributes", func(t *testing.T) {
		entry := auth.NewAuditEntry(7, auth.AuditActionRegister, "account created", "10.0.0.1", auth.AuditInfo)
		logged := record(t, entry)

		assert.Equal(t, "audit", logged["msg"])
		assert.Equal(t, "INFO", logged["level"])
		assert.Equal(t, auth.AuditActionRegister, logged["action"])
		assert.Equal(t, float64(7), logged["user_id"])
		assert.Equal(t, "10.0.0.1", logged["client_key"])
	})

	t.Run("warning entries log at warn level", func(t *testing.T) {
		entry := auth.NewAuditEntry(0, auth.AuditActionLoginFailed, "unknown username", "10.0.0.1", auth.AuditWarning)
		logged := record(t, entry)

		assert.Equal(t, "WARN", logged["level"])
		assert.Equal(t, "warning", logged["severity"])
	})
}
