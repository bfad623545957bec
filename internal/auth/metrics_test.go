// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchgrid/authcore/internal/auth"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	auth.RegisterMetrics(reg)

	auth.LoginAttempts.WithLabelValues(auth.StatusSuccess).Inc()
	auth.Registrations.WithLabelValues(auth.StatusFailure).Inc()
	auth.TokenOperations.WithLabelValues("validate", auth.StatusSuccess).Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "authcore_login_attempts_total")
	assert.Contains(t, names, "authcore_registrations_total")
	assert.Contains(t, names, "authcore_token_operations_total")
}
