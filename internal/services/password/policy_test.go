// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package password_test

import (
	"testing"

	"github.com/danisherror/productivity-manager/internal/services/password"
	"github.com/stretchr/testify/assert"
)

func TestIsStrong(t *testing.T) {
	policy := password.DefaultPolicy()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Abcdef1!", true},
		{"maximum length", "Abcdefghijklmno123!?", true},
		{"too short", "Abc1!", false},
		{"too long", "Abcdefghijklmnop1234!", false},
		{"missing uppercase", "abcdef1!", false},
		{"missing lowercase", "ABCDEF1!", false},
		{"missing digit", "Abcdefg!", false},
		{"missing symbol", "Abcdefg1", false},
		{"empty", "", false},
		{"symbol from the middle of the set", "Abcdef1;", true},
		{"bracket symbols", "Abcdef1[", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsStrong(tt.password))
		})
	}
}

func TestIsStrongEverySymbol(t *testing.T) {
	policy := password.DefaultPolicy()

	for _, symbol := range password.Symbols {
		assert.True(t, policy.IsStrong("Abcdef1"+string(symbol)), "symbol %q", symbol)
	}
}

func TestRequirements(t *testing.T) {
	reqs := password.DefaultPolicy().Requirements()
	assert.Len(t, reqs, 5)
	assert.Contains(t, reqs[0], "8")
	assert.Contains(t, reqs[0], "20")
}
