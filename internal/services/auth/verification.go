// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danisherror/productivity-manager/internal/models"
	"github.com/danisherror/productivity-manager/internal/repository"
	"github.com/danisherror/productivity-manager/internal/services/token"
)

// IssueVerification generates a fresh verification secret, persists its
// hash and expiry, and mails the raw secret. It does not roll back the
// persisted token on a send failure; signup's compensation handles that
// case by deleting the account.
func (s *Service) IssueVerification(ctx context.Context, user *models.User) error {
	secret, err := token.NewOpaqueSecret()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.VerificationTokenTTL)
	if err := s.repo.SetVerificationToken(ctx, user.ID, token.HashOpaqueSecret(secret), expiresAt); err != nil {
		return fmt.Errorf("storing verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email/%s", s.linkBase, secret)
	body := fmt.Sprintf(
		"Hi %s, please verify your email by clicking the following link:\n\n%s\n\nIf you did not request this, please ignore this email.",
		user.DisplayName, verifyURL)

	if err := s.mailer.Send(ctx, user.Email, "Verify Your Email", body); err != nil {
		return err
	}

	slog.Info("verification_issued", "user_id", user.ID)
	return nil
}

// VerifyEmail consumes a raw verification secret. On success the account
// is marked verified and both token fields are cleared in one statement;
// the transition is terminal.
func (s *Service) VerifyEmail(ctx context.Context, rawSecret string) (*models.User, error) {
	user, err := s.repo.GetUserByVerificationTokenHash(ctx, token.HashOpaqueSecret(rawSecret))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("looking up verification token: %w", err)
	}

	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	if user.EmailVerificationExpiresAt == nil || time.Now().UTC().After(*user.EmailVerificationExpiresAt) {
		return nil, ErrTokenExpired
	}

	if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("marking email verified: %w", err)
	}

	user.EmailVerified = true
	user.EmailVerificationTokenHash = nil
	user.EmailVerificationExpiresAt = nil

	slog.Info("email_verified", "user_id", user.ID)
	return user, nil
}

// VerificationTokenLive reports whether the account holds a pending
// verification token that has not expired. The sign-in decision uses it
// to avoid resending mail while a usable link is still out.
func (s *Service) VerificationTokenLive(user *models.User) bool {
	return user.EmailVerificationExpiresAt != nil &&
		time.Now().UTC().Before(*user.EmailVerificationExpiresAt)
}

// ResendVerification issues a fresh verification email for an unverified
// account looked up by email.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("looking up email: %w", err)
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	if err := s.IssueVerification(ctx, user); err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return nil
}
