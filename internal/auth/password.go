// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// Password policy defaults.
const (
	DefaultPasswordMinLength = 8
	DefaultPasswordMaxLength = 100
)

// passwordSymbols is the punctuation set that satisfies the symbol
// requirement. Characters outside every class (including non-ASCII)
// satisfy none of them.
const passwordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// PasswordPolicy validates password strength. The zero value is not
// usable; construct with NewPasswordPolicy or DefaultPasswordPolicy.
type PasswordPolicy struct {
	MinLength     int
	MaxLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPasswordPolicy returns the standard policy: length 8-100 and
// all four character classes required.
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:     DefaultPasswordMinLength,
		MaxLength:     DefaultPasswordMaxLength,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
	}
}

// Validate checks a password against the policy. It returns true with
// no violations when the password satisfies every rule; otherwise one
// violation string per unmet rule. Total over any input, including
// empty and non-ASCII strings.
func (p *PasswordPolicy) Validate(password string) (bool, []string) {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if len(password) > p.MaxLength {
		violations = append(violations, fmt.Sprintf("must be at most %d characters", p.MaxLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case unicode.IsDigit(r) && r < 128:
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if p.RequireUpper && !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if p.RequireLower && !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if p.RequireDigit && !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if p.RequireSymbol && !hasSymbol {
		violations = append(violations, "must contain a symbol")
	}

	return len(violations) == 0, violations
}
