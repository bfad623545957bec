// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

// Package mocks provides testify mocks for the auth collaborator
// contracts.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dispatchgrid/authcore/internal/auth"
)

// testingT is the subset of *testing.T the constructors need.
type testingT interface {
	Cleanup(func())
	mock.TestingT
}

// MockUserDirectory mocks auth.UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

// NewMockUserDirectory creates a mock that asserts its expectations
// during test cleanup.
func NewMockUserDirectory(t testingT) *MockUserDirectory {
	m := &MockUserDirectory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserDirectory) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserDirectory) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserDirectory) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenIssuer mocks auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a mock that asserts its expectations
// during test cleanup.
func NewMockTokenIssuer(t testingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) IssueAccessToken(ctx context.Context, user *auth.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) IssueRefreshToken(ctx context.Context, user *auth.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if c := args.Get(0); c != nil {
		return c.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenIssuer) Decode(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if c := args.Get(0); c != nil {
		return c.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenIssuer) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) {
	m.Called(ctx, tokenID, expiresAt)
}

func (m *MockTokenIssuer) IsRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

// MockAttemptTracker mocks auth.AttemptTracker.
type MockAttemptTracker struct {
	mock.Mock
}

// NewMockAttemptTracker creates a mock that asserts its expectations
// during test cleanup.
func NewMockAttemptTracker(t testingT) *MockAttemptTracker {
	m := &MockAttemptTracker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAttemptTracker) RecordFailure(key string) {
	m.Called(key)
}

func (m *MockAttemptTracker) RecordSuccess(key string) {
	m.Called(key)
}

func (m *MockAttemptTracker) IsLocked(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

// MockPasswordHasher mocks auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock that asserts its expectations
// during test cleanup.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockPasswordHasher) NeedsUpgrade(hash string) bool {
	args := m.Called(hash)
	return args.Bool(0)
}

// MockAuditSink mocks auth.AuditSink.
type MockAuditSink struct {
	mock.Mock
}

// NewMockAuditSink creates a mock that asserts its expectations during
// test cleanup.
func NewMockAuditSink(t testingT) *MockAuditSink {
	m := &MockAuditSink{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuditSink) Record(ctx context.Context, entry auth.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Compile-time interface checks.
var (
	_ auth.UserDirectory  = (*MockUserDirectory)(nil)
	_ auth.TokenIssuer    = (*MockTokenIssuer)(nil)
	_ auth.AttemptTracker = (*MockAttemptTracker)(nil)
	_ auth.PasswordHasher = (*MockPasswordHasher)(nil)
	_ auth.AuditSink      = (*MockAuditSink)(nil)
)
