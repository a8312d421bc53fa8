// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt hash for storage. The plaintext is never
// persisted or logged.
func Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. This is
// the only comparison path used at sign-in.
func Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
