// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/dispatchgrid/authcore/internal/auth"
)

// AuditRepository implements auth.AuditSink with an append-only table.
// The service treats writes as fire-and-forget; this adapter only
// reports the failure.
type AuditRepository struct {
	db querier
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db querier) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends one audit entry.
func (r *AuditRepository) Record(ctx context.Context, entry auth.AuditEntry) error {
	var userID *int64
	if entry.UserID != 0 {
		userID = &entry.UserID
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (id, user_id, action, details, client_key, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		entry.ID,
		userID,
		entry.Action,
		entry.Details,
		entry.ClientKey,
		string(entry.Severity),
		entry.CreatedAt,
	)
	if err != nil {
		return oops.Code("AUDIT_RECORD_FAILED").
			With("operation", "insert audit entry").
			With("action", entry.Action).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ auth.AuditSink = (*AuditRepository)(nil)
