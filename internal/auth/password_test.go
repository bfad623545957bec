// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dispatchgrid/authcore/internal/auth"
)

func TestPasswordPolicy_Validate(t *testing.T) {
	policy := auth.DefaultPasswordPolicy()

	t.Run("accepts password satisfying all rules", func(t *testing.T) {
		ok, violations := policy.Validate("Password123!")
		assert.True(t, ok)
		assert.Empty(t, violations)
	})

	t.Run("rejects all-lowercase password", func(t *testing.T) {
		ok, violations := policy.Validate("password")
		assert.False(t, ok)
		assert.Contains(t, violations, "must contain an uppercase letter")
		assert.Contains(t, violations, "must contain a digit")
		assert.Contains(t, violations, "must contain a symbol")
		assert.NotContains(t, violations, "must contain a lowercase letter")
	})

	t.Run("rejects short password", func(t *testing.T) {
		ok, violations := policy.Validate("Pass1!")
		assert.False(t, ok)
		assert.Contains(t, violations, "must be at least 8 characters")
	})

	t.Run("rejects overlong password", func(t *testing.T) {
		long := strings.Repeat("Aa1!", 30)
		ok, violations := policy.Validate(long)
		assert.False(t, ok)
		assert.Contains(t, violations, "must be at most 100 characters")
	})

	t.Run("empty password reports every violation", func(t *testing.T) {
		ok, violations := policy.Validate("")
		assert.False(t, ok)
		assert.Len(t, violations, 5)
	})

	t.Run("non-ascii runes satisfy no class", func(t *testing.T) {
		ok, violations := policy.Validate("ÄäÖöÜüß世界")
		assert.False(t, ok)
		assert.Contains(t, violations, "must contain an uppercase letter")
		assert.Contains(t, violations, "must contain a lowercase letter")
		assert.Contains(t, violations, "must contain a digit")
		assert.Contains(t, violations, "must contain a symbol")
	})

	t.Run("relaxed policy skips disabled rules", func(t *testing.T) {
		relaxed := &auth.PasswordPolicy{MinLength: 4, MaxLength: 100}
		ok, violations := relaxed.Validate("word")
		assert.True(t, ok)
		assert.Empty(t, violations)
	})
}
