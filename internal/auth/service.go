// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/dispatchgrid/authcore/pkg/errutil"
)

// Service orchestrates credential verification, lockout, password
// policy, token lifecycle, and profile management. All collaborator
// state is injected; the service holds no ambient globals and no lock
// is held across collaborator I/O.
type Service struct {
	users   UserDirectory
	issuer  TokenIssuer
	tracker AttemptTracker
	hasher  PasswordHasher
	audit   AuditSink
	policy  *PasswordPolicy
	logger  *slog.Logger
}

// dummyPasswordHash is verified against when a username does not
// exist, so lookups for unknown and known users take comparable time.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// NewService creates a Service with the default password policy and
// logger. All collaborators are required.
func NewService(users UserDirectory, issuer TokenIssuer, tracker AttemptTracker, hasher PasswordHasher, audit AuditSink) (*Service, error) {
	return NewServiceWithLogger(users, issuer, tracker, hasher, audit, nil, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit password
// policy and logger. A nil policy falls back to the default.
func NewServiceWithLogger(users UserDirectory, issuer TokenIssuer, tracker AttemptTracker, hasher PasswordHasher, audit AuditSink, policy *PasswordPolicy, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("user directory is required")
	}
	if issuer == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("token issuer is required")
	}
	if tracker == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("attempt tracker is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if audit == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("audit sink is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("logger is required")
	}
	if policy == nil {
		policy = DefaultPasswordPolicy()
	}
	return &Service{
		users:   users,
		issuer:  issuer,
		tracker: tracker,
		hasher:  hasher,
		audit:   audit,
		policy:  policy,
		logger:  logger,
	}, nil
}

// Credentials are the inputs to Login.
type Credentials struct {
	Username string
	Password string
}

// Registration is the input to Register.
type Registration struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Role            string
	Phone           string
	Address         string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// ProfileUpdate is a partial update of mutable profile fields. Nil
// pointers leave the field unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// Login verifies credentials and issues a token pair. A locked client
// key is refused before the directory is consulted. Failures for
// unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, creds Credentials, clientKey string) (*SessionResult, error) {
	if s.tracker.IsLocked(clientKey) {
		LoginAttempts.WithLabelValues(StatusRateLimited).Inc()
		s.recordAudit(ctx, NewAuditEntry(0, AuditActionLoginLocked, "login refused while locked out", clientKey, AuditWarning))
		return &SessionResult{Result: fail(MsgTooManyAttempts)}, nil
	}

	user, lookupErr := s.users.FindByUsername(ctx, creds.Username)
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "find user by username").
				Wrap(lookupErr)
		}
		// Unknown username: still verify against a dummy hash so the
		// response time matches the known-user path.
		_, _ = s.hasher.Verify(creds.Password, dummyPasswordHash) //nolint:errcheck // timing only
		return s.loginFailure(ctx, 0, clientKey, "unknown username"), nil
	}

	valid, verifyErr := s.hasher.Verify(creds.Password, user.PasswordHash)
	if verifyErr != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !valid || !user.Active {
		return s.loginFailure(ctx, user.ID, clientKey, "credential mismatch"), nil
	}

	s.tracker.RecordSuccess(clientKey)

	// Rehash legacy password hashes with current parameters.
	// Best effort: login succeeds even if the update fails.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(creds.Password); hashErr == nil {
			user.PasswordHash = newHash
			if _, err := s.users.Update(ctx, user); err != nil {
				errutil.LogError(s.logger, "password hash upgrade failed", err)
			}
		}
	}

	tokens, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	LoginAttempts.WithLabelValues(StatusSuccess).Inc()
	s.recordAudit(ctx, NewAuditEntry(user.ID, AuditActionLogin, "login succeeded", clientKey, AuditInfo))

	return &SessionResult{
		Result: ok(MsgLoginSuccessful),
		User:   user.Profile(),
		Tokens: tokens,
	}, nil
}

// loginFailure records a failed attempt and returns the generic
// invalid-credentials envelope.
func (s *Service) loginFailure(ctx context.Context, userID int64, clientKey, details string) *SessionResult {
	s.tracker.RecordFailure(clientKey)
	LoginAttempts.WithLabelValues(StatusFailure).Inc()
	s.recordAudit(ctx, NewAuditEntry(userID, AuditActionLoginFailed, details, clientKey, AuditWarning))
	return &SessionResult{Result: fail(MsgInvalidCredentials)}
}

// Register validates registration data and creates the user. Format
// problems are reported together as field errors; uniqueness, policy,
// confirmation, and terms checks short-circuit in that order.
func (s *Service) Register(ctx context.Context, reg Registration, clientKey string) (*SessionResult, error) {
	var fieldErrors []string
	if !ValidUsername(reg.Username) {
		fieldErrors = append(fieldErrors, "username must be 3-50 characters of letters, digits, underscores, or hyphens")
	}
	if !ValidEmail(reg.Email) {
		fieldErrors = append(fieldErrors, "email address is not valid")
	}
	if !ValidPhone(reg.Phone) {
		fieldErrors = append(fieldErrors, "phone number is not valid")
	}
	role, roleErr := ParseRole(reg.Role)
	if roleErr != nil {
		fieldErrors = append(fieldErrors, "role must be one of admin, dispatcher, responder")
	}
	if len(fieldErrors) > 0 {
		Registrations.WithLabelValues(StatusFailure).Inc()
		return &SessionResult{Result: fail(MsgInvalidRegistration, fieldErrors...)}, nil
	}

	taken, err := s.users.ExistsByUsername(ctx, strings.TrimSpace(reg.Username))
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check username uniqueness").
			Wrap(err)
	}
	if taken {
		Registrations.WithLabelValues(StatusFailure).Inc()
		return &SessionResult{Result: fail(MsgUsernameExists)}, nil
	}

	emailTaken, err := s.users.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check email uniqueness").
			Wrap(err)
	}
	if emailTaken {
		Registrations.WithLabelValues(StatusFailure).Inc()
		return &SessionResult{Result: fail(MsgEmailExists)}, nil
	}

	if policyOK, violations := s.policy.Validate(reg.Password); !policyOK {
		Registrations.WithLabelValues(StatusFailure).Inc()
		msg := MsgPasswordRequirements + strings.Join(violations, ", ")
		return &SessionResult{Result: fail(msg, violations...)}, nil
	}

	if reg.Password != reg.ConfirmPassword {
		Registrations.WithLabelValues(StatusFailure).Inc()
		return &SessionResult{Result: fail(MsgPasswordsDoNotMatch)}, nil
	}

	if !reg.AcceptTerms {
		Registrations.WithLabelValues(StatusFailure).Inc()
		return &SessionResult{Result: fail(MsgTermsNotAccepted)}, nil
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := s.users.Create(ctx, &User{
		Username:     strings.TrimSpace(reg.Username),
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Role:         role,
		Phone:        reg.Phone,
		Address:      reg.Address,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		// The directory enforces uniqueness atomically; a duplicate
		// here lost a race with a concurrent registration.
		if errors.Is(err, ErrDuplicate) {
			Registrations.WithLabelValues(StatusFailure).Inc()
			return &SessionResult{Result: fail(MsgUsernameExists)}, nil
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			With("username", reg.Username).
			Wrap(err)
	}

	tokens, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	Registrations.WithLabelValues(StatusSuccess).Inc()
	s.recordAudit(ctx, NewAuditEntry(user.ID, AuditActionRegister, "account created", clientKey, AuditInfo))

	return &SessionResult{
		Result: ok(MsgRegistrationSuccess),
		User:   user.Profile(),
		Tokens: tokens,
	}, nil
}

// ChangePassword verifies the current password and replaces it with a
// policy-conforming new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, newPassword, confirm string) (*Result, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r := fail(MsgUserNotFound)
			return &r, nil
		}
		return nil, oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "find user by id").
			With("user_id", userID).
			Wrap(err)
	}

	valid, verifyErr := s.hasher.Verify(current, user.PasswordHash)
	if verifyErr != nil {
		return nil, oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "verify current password").
			Wrap(verifyErr)
	}
	if !valid {
		r := fail(MsgCurrentPasswordWrong)
		return &r, nil
	}

	if newPassword != confirm {
		r := fail(MsgPasswordsDoNotMatch)
		return &r, nil
	}

	if policyOK, violations := s.policy.Validate(newPassword); !policyOK {
		r := fail(MsgPasswordRequirements+strings.Join(violations, ", "), violations...)
		return &r, nil
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if _, err := s.users.Update(ctx, user); err != nil {
		return nil, oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "update user").
			With("user_id", userID).
			Wrap(err)
	}

	s.recordAudit(ctx, NewAuditEntry(userID, AuditActionPasswordChange, "password changed", "", AuditInfo))

	r := ok(MsgPasswordChanged)
	return &r, nil
}

// GetUserProfile returns the public view of a user.
func (s *Service) GetUserProfile(ctx context.Context, userID int64) (*ProfileResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ProfileResult{Result: fail(MsgUserNotFound)}, nil
		}
		return nil, oops.Code("AUTH_PROFILE_FAILED").
			With("operation", "find user by id").
			With("user_id", userID).
			Wrap(err)
	}
	return &ProfileResult{Result: ok(MsgProfileRetrieved), User: user.Profile()}, nil
}

// UpdateUserProfile applies a partial update of mutable fields,
// re-validating email and phone formats.
func (s *Service) UpdateUserProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*ProfileResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ProfileResult{Result: fail(MsgUserNotFound)}, nil
		}
		return nil, oops.Code("AUTH_PROFILE_FAILED").
			With("operation", "find user by id").
			With("user_id", userID).
			Wrap(err)
	}

	var fieldErrors []string
	if upd.Email != nil && !ValidEmail(*upd.Email) {
		fieldErrors = append(fieldErrors, "email address is not valid")
	}
	if upd.Phone != nil && !ValidPhone(*upd.Phone) {
		fieldErrors = append(fieldErrors, "phone number is not valid")
	}
	if len(fieldErrors) > 0 {
		return &ProfileResult{Result: fail(MsgInvalidProfileData, fieldErrors...)}, nil
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	user.UpdatedAt = time.Now()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return &ProfileResult{Result: fail(MsgEmailExists)}, nil
		}
		return nil, oops.Code("AUTH_PROFILE_FAILED").
			With("operation", "update user").
			With("user_id", userID).
			Wrap(err)
	}

	s.recordAudit(ctx, NewAuditEntry(userID, AuditActionProfileUpdate, "profile updated", "", AuditInfo))

	return &ProfileResult{Result: ok(MsgProfileUpdated), User: updated.Profile()}, nil
}

// ValidateToken checks an access token: signature, issuer/audience,
// validity window, and revocation.
func (s *Service) ValidateToken(ctx context.Context, token string) (*Result, error) {
	if _, err := s.issuer.Verify(ctx, token); err != nil {
		TokenOperations.WithLabelValues("validate", StatusFailure).Inc()
		r := fail(MsgTokenInvalid)
		return &r, nil
	}
	TokenOperations.WithLabelValues("validate", StatusSuccess).Inc()
	r := ok(MsgTokenValid)
	return &r, nil
}

// RefreshToken exchanges a valid refresh token for a new access token
// bound to the same subject.
func (s *Service) RefreshToken(ctx context.Context, refreshToken, clientKey string) (*RefreshResult, error) {
	claims, err := s.issuer.Verify(ctx, refreshToken)
	if err != nil || claims.Type != TokenTypeRefresh {
		TokenOperations.WithLabelValues("refresh", StatusFailure).Inc()
		return &RefreshResult{Result: fail(MsgInvalidRefreshToken)}, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			TokenOperations.WithLabelValues("refresh", StatusFailure).Inc()
			return &RefreshResult{Result: fail(MsgInvalidRefreshToken)}, nil
		}
		return nil, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "find user by id").
			With("user_id", claims.UserID).
			Wrap(err)
	}
	if !user.Active {
		TokenOperations.WithLabelValues("refresh", StatusFailure).Inc()
		return &RefreshResult{Result: fail(MsgInvalidRefreshToken)}, nil
	}

	access, err := s.issuer.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "issue access token").
			Wrap(err)
	}

	TokenOperations.WithLabelValues("refresh", StatusSuccess).Inc()
	s.recordAudit(ctx, NewAuditEntry(user.ID, AuditActionTokenRefresh, "access token refreshed", clientKey, AuditInfo))

	return &RefreshResult{Result: ok(MsgTokenRefreshed), AccessToken: access}, nil
}

// Logout revokes a token by its id until the token's natural expiry.
// Revoking an already-revoked token succeeds again; only malformed
// input fails.
func (s *Service) Logout(ctx context.Context, token, clientKey string) (*Result, error) {
	claims, err := s.issuer.Decode(ctx, token)
	if err != nil {
		TokenOperations.WithLabelValues("revoke", StatusFailure).Inc()
		r := fail(MsgTokenInvalid)
		return &r, nil
	}

	s.issuer.Revoke(ctx, claims.TokenID, claims.ExpiresAt)

	TokenOperations.WithLabelValues("revoke", StatusSuccess).Inc()
	s.recordAudit(ctx, NewAuditEntry(claims.UserID, AuditActionTokenRevoke, "token revoked", clientKey, AuditInfo))

	r := ok(MsgTokenRevoked)
	return &r, nil
}

// ResetPasswordRequest acknowledges a reset request with the same
// response whether or not the email matches a user, so account
// existence is never revealed. Only the audit trail differs.
func (s *Service) ResetPasswordRequest(ctx context.Context, email string) (*Result, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_RESET_REQUEST_FAILED").
				With("operation", "find user by email").
				Wrap(err)
		}
		s.recordAudit(ctx, NewAuditEntry(0, AuditActionResetRequest, "reset requested for unknown email", "", AuditInfo))
		r := ok(MsgResetRequested)
		return &r, nil
	}

	s.recordAudit(ctx, NewAuditEntry(user.ID, AuditActionResetRequest, "reset requested", "", AuditInfo))
	r := ok(MsgResetRequested)
	return &r, nil
}

// issueTokenPair mints the access and refresh tokens for a user.
func (s *Service) issueTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue access token").
			Wrap(err)
	}
	refresh, err := s.issuer.IssueRefreshToken(ctx, user)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "issue refresh token").
			Wrap(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// recordAudit writes an audit entry. Sink failures are logged and
// never fail the caller's operation.
func (s *Service) recordAudit(ctx context.Context, entry AuditEntry) {
	if err := s.audit.Record(ctx, entry); err != nil {
		errutil.LogError(s.logger, "audit write failed", err)
	}
}
