// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// AuditSeverity classifies audit entries.
type AuditSeverity string

// Audit severities.
const (
	AuditInfo    AuditSeverity = "info"
	AuditWarning AuditSeverity = "warning"
)

// Audit actions recorded by the service.
const (
	AuditActionLogin          = "login"
	AuditActionLoginFailed    = "login_failed"
	AuditActionLoginLocked    = "login_locked"
	AuditActionRegister       = "register"
	AuditActionPasswordChange = "password_change"
	AuditActionProfileUpdate  = "profile_update"
	AuditActionTokenRefresh   = "token_refresh"
	AuditActionTokenRevoke    = "token_revoke"
	AuditActionResetRequest   = "password_reset_request"
)

// AuditEntry is one append-only security-event record. UserID is zero
// when the subject is unknown (for example a failed login for a
// nonexistent username).
type AuditEntry struct {
	ID        string
	UserID    int64
	Action    string
	Details   string
	ClientKey string
	Severity  AuditSeverity
	CreatedAt time.Time
}

// NewAuditEntry builds an entry with a fresh id and timestamp.
func NewAuditEntry(userID int64, action, details, clientKey string, severity AuditSeverity) AuditEntry {
	return AuditEntry{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		ClientKey: clientKey,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
}

// AuditSink records security events. Writes are fire-and-forget from
// the service's perspective: a sink failure is logged but never fails
// the caller's operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// SlogAuditSink writes audit entries to a structured logger. Suitable
// as a default when no durable sink is configured.
type SlogAuditSink struct {
	logger *slog.Logger
}

// NewSlogAuditSink creates a sink writing to the given logger. A nil
// logger falls back to slog.Default.
func NewSlogAuditSink(logger *slog.Logger) *SlogAuditSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditSink{logger: logger}
}

// Record writes the entry as a structured log record.
func (s *SlogAuditSink) Record(ctx context.Context, entry AuditEntry) error {
	level := slog.LevelInfo
	if entry.Severity == AuditWarning {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "audit",
		"audit_id", entry.ID,
		"user_id", entry.UserID,
		"action", entry.Action,
		"details", entry.Details,
		"client_key", entry.ClientKey,
		"severity", string(entry.Severity),
	)
	return nil
}

// Compile-time interface check.
var _ AuditSink = (*SlogAuditSink)(nil)
