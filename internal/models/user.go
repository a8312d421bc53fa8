// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// User is an account in the productivity manager. Password hashes and
// pending token hashes never leave the JSON boundary.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                         string     `db:"id" json:"id"`
	Username                   string     `db:"username" json:"username"`
	DisplayName                string     `db:"display_name" json:"name"`
	Email                      string     `db:"email" json:"email"`
	PasswordHash               string     `db:"password_hash" json:"-"`
	EmailVerified              bool       `db:"email_verified" json:"email_verified"`
	EmailVerificationTokenHash *string    `db:"email_verification_token_hash" json:"-"`
	EmailVerificationExpiresAt *time.Time `db:"email_verification_expires_at" json:"-"`
	PasswordResetTokenHash     *string    `db:"password_reset_token_hash" json:"-"`
	PasswordResetExpiresAt     *time.Time `db:"password_reset_expires_at" json:"-"`
	CreatedAt                  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                  time.Time  `db:"updated_at" json:"updated_at"`
}
