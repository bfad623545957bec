// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchgrid/authcore/internal/auth"
	"github.com/dispatchgrid/authcore/pkg/errutil"
)

func TestAuditRepository_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts one row", func(t *testing.T) {
		mock := newMockPool(t)
		entry := auth.NewAuditEntry(7, auth.AuditActionLogin, "login succeeded", "10.0.0.1", auth.AuditInfo)
		mock.ExpectExec(`INSERT INTO audit_log`).
			WithArgs(entry.ID, &entry.UserID, entry.Action, entry.Details,
				entry.ClientKey, "info", entry.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewAuditRepository(mock).Record(ctx, entry)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("zero user id is stored as NULL", func(t *testing.T) {
		mock := newMockPool(t)
		entry := auth.NewAuditEntry(0, auth.AuditActionLoginFailed, "unknown username", "10.0.0.1", auth.AuditWarning)
		mock.ExpectExec(`INSERT INTO audit_log`).
			WithArgs(entry.ID, (*int64)(nil), entry.Action, entry.Details,
				entry.ClientKey, "warning", entry.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewAuditRepository(mock).Record(ctx, entry)
		require.NoError(t, err)
	})

	t.Run("insert failure is reported", func(t *testing.T) {
		mock := newMockPool(t)
		entry := auth.NewAuditEntry(7, auth.AuditActionLogin, "login succeeded", "10.0.0.1", auth.AuditInfo)
		mock.ExpectExec(`INSERT INTO audit_log`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		err := NewAuditRepository(mock).Record(ctx, entry)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUDIT_RECORD_FAILED")
	})
}
