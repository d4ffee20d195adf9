// File: internal/domain/chat_test.go
package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Hello there", DeriveTitle("  Hello there  "))

	long := strings.Repeat("a", 60)
	assert.Equal(t, strings.Repeat("a", 50), DeriveTitle(long))

	// Rune-aware, never splits a multi-byte character.
	unicode := strings.Repeat("é", 60)
	assert.Equal(t, strings.Repeat("é", 50), DeriveTitle(unicode))

	// A trailing space at the cut point is trimmed.
	spaced := strings.Repeat("a", 49) + " b"
	assert.Equal(t, strings.Repeat("a", 49), DeriveTitle(spaced))

	assert.Equal(t, "", DeriveTitle("   "))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAssistant))
	assert.False(t, IsValidRole("system"))
	assert.False(t, IsValidRole(""))
}
