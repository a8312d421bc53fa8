// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues opaque random secrets for email verification and
// password reset flows. The raw secret is handed to the user out-of-band;
// only its SHA256 lookup hash is ever persisted.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SecretLength is the number of random bytes in an opaque secret.
const SecretLength = 32

// NewOpaqueSecret generates a cryptographically random, hex-encoded
// secret.
func NewOpaqueSecret() (string, error) {
	bytes := make([]byte, SecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashOpaqueSecret computes the SHA256 lookup hash of a raw secret. It
// is used for correlation only, never for password storage.
func HashOpaqueSecret(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}
