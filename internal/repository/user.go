// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/danisherror/productivity-manager/internal/models"
)

// CreateUser inserts a new user. A unique-constraint violation on email
// or username surfaces as *DuplicateError.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, display_name, email, password_hash, email_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.DisplayName, user.Email, user.PasswordHash, user.EmailVerified,
		user.CreatedAt, user.UpdatedAt)
	return wrapError(err)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// EmailExists checks if a user with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	return exists, err
}

// UsernameExists checks if a user with the given username exists.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username)
	return exists, err
}

// DeleteUser deletes a user by ID. Used to roll back signup when the
// verification mail cannot be delivered.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return wrapError(err)
}

// SetVerificationToken stores the hash and expiry of a pending email
// verification token. Hash and expiry are always written together.
func (r *Repository) SetVerificationToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_verification_token_hash = ?, email_verification_expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		tokenHash, expiresAt, time.Now().UTC(), id)
	return wrapError(err)
}

// GetUserByVerificationTokenHash looks up the account holding a pending
// verification token with the given hash.
func (r *Repository) GetUserByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT * FROM users WHERE email_verification_token_hash = ?`, tokenHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// MarkEmailVerified flips the verified flag and clears both verification
// token fields in a single statement.
func (r *Repository) MarkEmailVerified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_verified = 1, email_verification_token_hash = NULL, email_verification_expires_at = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), id)
	return wrapError(err)
}

// SetResetToken stores the hash and expiry of a pending password reset
// token.
func (r *Repository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_reset_token_hash = ?, password_reset_expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		tokenHash, expiresAt, time.Now().UTC(), id)
	return wrapError(err)
}

// ClearResetToken removes a pending reset token. Called when the reset
// mail could not be delivered, so no live token is ever un-deliverable.
func (r *Repository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), id)
	return wrapError(err)
}

// GetUserByResetTokenHash looks up the account holding a pending reset
// token with the given hash.
func (r *Repository) GetUserByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT * FROM users WHERE password_reset_token_hash = ?`, tokenHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// ConsumePasswordReset replaces the password hash and clears the reset
// token fields, guarded on the token hash still matching. Returns false
// when another consumer already cleared the token, which makes the reset
// single-winner under concurrent use.
func (r *Repository) ConsumePasswordReset(ctx context.Context, id, tokenHash, newPasswordHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = ?
		 WHERE id = ? AND password_reset_token_hash = ?`,
		newPasswordHash, time.Now().UTC(), id, tokenHash)
	if err != nil {
		return false, wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
