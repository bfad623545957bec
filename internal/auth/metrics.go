// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for auth outcome metrics.
const (
	StatusSuccess     = "success"
	StatusFailure     = "failure"
	StatusRateLimited = "rate_limited"
	StatusError       = "error"
)

// LoginAttempts counts login attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	},
	[]string{"status"},
)

// Registrations counts registration attempts by outcome.
var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_registrations_total",
		Help: "Total number of registration attempts by outcome",
	},
	[]string{"status"},
)

// TokenOperations counts token validate/refresh/revoke operations.
var TokenOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_token_operations_total",
		Help: "Total number of token operations by kind and outcome",
	},
	[]string{"operation", "status"},
)

// RegisterMetrics registers auth package metrics with the given
// Prometheus registry. Call at startup to expose them on /metrics.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(Registrations)
	reg.MustRegister(TokenOperations)
}
