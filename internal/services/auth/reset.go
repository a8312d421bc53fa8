// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danisherror/productivity-manager/internal/repository"
	"github.com/danisherror/productivity-manager/internal/services/password"
	"github.com/danisherror/productivity-manager/internal/services/token"
)

// RequestPasswordReset generates a reset secret for the account behind
// the email, persists its hash and expiry, and mails the raw secret. If
// the mail cannot be delivered the token fields are cleared again before
// the failure surfaces, so no live reset token is ever un-deliverable.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("looking up email: %w", err)
	}

	secret, err := token.NewOpaqueSecret()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token.HashOpaqueSecret(secret), expiresAt); err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.linkBase, secret)
	body := fmt.Sprintf(
		"Hi %s, you requested a password reset. The link below is valid for %s:\n\n%s\n\nIf you did not request this, please ignore this email.",
		user.DisplayName, s.cfg.ResetTokenTTL, resetURL)

	if err := s.mailer.Send(ctx, user.Email, "Password Reset", body); err != nil {
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			slog.Error("reset_rollback_failed", "user_id", user.ID, "error", clearErr)
		}
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	slog.Info("reset_requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset secret and replaces the password. The
// clearing update is guarded on the token hash still matching, so of two
// concurrent calls with the same secret only the first succeeds; the
// second observes ErrResetInvalidOrExpired.
func (s *Service) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	tokenHash := token.HashOpaqueSecret(rawSecret)

	user, err := s.repo.GetUserByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetInvalidOrExpired
		}
		return fmt.Errorf("looking up reset token: %w", err)
	}

	if user.PasswordResetExpiresAt == nil || time.Now().UTC().After(*user.PasswordResetExpiresAt) {
		return ErrResetInvalidOrExpired
	}

	if !s.policy.IsStrong(newPassword) {
		return ErrWeakPassword
	}

	newHash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	ok, err := s.repo.ConsumePasswordReset(ctx, user.ID, tokenHash, newHash)
	if err != nil {
		return fmt.Errorf("consuming reset token: %w", err)
	}
	if !ok {
		return ErrResetInvalidOrExpired
	}

	slog.Info("password_reset", "user_id", user.ID)
	return nil
}
