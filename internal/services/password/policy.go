// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package password provides password strength validation and one-way
// hashing for stored credentials.
package password

import "strings"

// Symbols is the punctuation set accepted as special characters.
const Symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Policy validates password strength. It is enforced when credentials
// are created or replaced, never on the sign-in path.
type Policy struct {
	MinLength int
	MaxLength int
}

// DefaultPolicy returns the policy applied at signup and password reset.
func DefaultPolicy() *Policy {
	return &Policy{MinLength: 8, MaxLength: 20}
}

// IsStrong reports whether the password is within the length bounds and
// contains at least one uppercase letter, one lowercase letter, one
// digit and one symbol from Symbols.
func (p *Policy) IsStrong(password string) bool {
	if len(password) < p.MinLength || len(password) > p.MaxLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Requirements returns human-readable help texts for the policy.
func (p *Policy) Requirements() []string {
	return []string{
		"Between 8 and 20 characters",
		"At least one uppercase letter",
		"At least one lowercase letter",
		"At least one digit",
		"At least one special character (" + Symbols + ")",
	}
}
