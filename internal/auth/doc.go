// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

// Package auth is the authentication and account-security core for
// DispatchGrid.
//
// # Components
//
//   - Service - login, registration, password change, profile
//     management, and the token lifecycle, returning a uniform result
//     envelope
//   - LoginAttemptTracker - per-client failure counting with
//     time-windowed lockout
//   - PasswordPolicy - configurable password strength validation
//   - Denylist - in-memory token revocation until natural expiry
//
// # Collaborators
//
// The core depends on narrow interfaces only: UserDirectory for user
// persistence, TokenIssuer for signing and verification, AuditSink for
// security-event records, and PasswordHasher for credential hashing.
// Adapters live in subpackages (postgres, jwt); tests use the mocks
// subpackage.
//
// Expected outcomes (bad credentials, lockout, duplicate usernames)
// are reported in the envelope, never as errors; errors are reserved
// for collaborator failures.
package auth
