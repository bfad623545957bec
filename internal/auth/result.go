// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

// Result is the uniform envelope every public operation returns.
// Invariants: Message is always present; Success=false implies no
// payload in the embedding result types.
type Result struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	FieldErrors []string `json:"errors,omitempty"`
}

// ok builds a success envelope.
func ok(message string) Result {
	return Result{Success: true, Message: message}
}

// fail builds a failure envelope.
func fail(message string, fieldErrors ...string) Result {
	return Result{Success: false, Message: message, FieldErrors: fieldErrors}
}

// SessionResult is returned by Login and Register: the public user
// view plus a freshly issued token pair.
type SessionResult struct {
	Result
	User   *Profile   `json:"user,omitempty"`
	Tokens *TokenPair `json:"tokens,omitempty"`
}

// ProfileResult is returned by the profile operations.
type ProfileResult struct {
	Result
	User *Profile `json:"user,omitempty"`
}

// RefreshResult is returned by RefreshToken with the new access token.
type RefreshResult struct {
	Result
	AccessToken string `json:"access_token,omitempty"`
}

// Operation messages. These are part of the public contract; the HTTP
// layer maps them verbatim.
const (
	MsgLoginSuccessful      = "Login successful"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgTooManyAttempts      = "Too many login attempts. Please try again later."
	MsgRegistrationSuccess  = "Registration successful"
	MsgUsernameExists       = "Username already exists"
	MsgEmailExists          = "Email already exists"
	MsgPasswordsDoNotMatch  = "Passwords do not match."
	MsgTermsNotAccepted     = "You must accept the terms and conditions"
	MsgPasswordRequirements = "Password does not meet requirements: "
	MsgCurrentPasswordWrong = "Current password is incorrect"
	MsgPasswordChanged      = "Password changed successfully"
	MsgUserNotFound         = "User not found"
	MsgProfileRetrieved     = "Profile retrieved successfully"
	MsgProfileUpdated       = "Profile updated successfully"
	MsgInvalidProfileData   = "Profile update failed"
	MsgTokenValid           = "Token is valid"
	MsgTokenInvalid         = "Token is invalid"
	MsgInvalidRefreshToken  = "Invalid refresh token"
	MsgTokenRefreshed       = "Token refreshed successfully"
	MsgTokenRevoked         = "Token revoked successfully"
	MsgInvalidRegistration  = "Registration data is invalid"

	// MsgResetRequested is returned for every reset request, known
	// email or not, so responses never reveal account existence.
	MsgResetRequested = "If the email is registered, password reset instructions have been sent"
)
