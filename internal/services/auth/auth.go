// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth composes account signup, sign-in decisioning, email
// verification, password reset and login auditing on top of the
// repository, mailer and session services.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/danisherror/productivity-manager/internal/config"
	"github.com/danisherror/productivity-manager/internal/models"
	"github.com/danisherror/productivity-manager/internal/repository"
	"github.com/danisherror/productivity-manager/internal/services/mailer"
	"github.com/danisherror/productivity-manager/internal/services/password"
	"github.com/danisherror/productivity-manager/internal/services/session"
	"github.com/google/uuid"
)

// Service is the single entry point the HTTP layer uses for everything
// identity-related.
type Service struct {
	repo     *repository.Repository
	mailer   mailer.Mailer
	sessions *session.Manager
	policy   *password.Policy
	cfg      *config.AuthConfig
	linkBase string
}

// NewService creates the auth service. linkBase is the frontend base URL
// embedded in verification and reset links.
func NewService(repo *repository.Repository, m mailer.Mailer, sessions *session.Manager, cfg *config.AuthConfig, linkBase string) *Service {
	return &Service{
		repo:     repo,
		mailer:   m,
		sessions: sessions,
		policy:   password.DefaultPolicy(),
		cfg:      cfg,
		linkBase: strings.TrimSuffix(linkBase, "/"),
	}
}

// PasswordPolicy returns the policy enforced at signup and reset.
func (s *Service) PasswordPolicy() *password.Policy {
	return s.policy
}

// SignupParams holds the parameters for account registration.
type SignupParams struct {
	Username string
	Name     string
	Email    string
	Password string
}

// Signup registers a new, unverified account and sends the verification
// email. If the mail cannot be delivered the freshly created account is
// deleted again, so the system never retains an account whose welcome
// email was lost.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*models.User, error) {
	if err := validateSignup(&params); err != nil {
		return nil, err
	}

	if !s.policy.IsStrong(params.Password) {
		return nil, ErrWeakPassword
	}

	// Friendly pre-checks; the unique constraints on users.email and
	// users.username remain the actual guarantee under races.
	if exists, err := s.repo.EmailExists(ctx, params.Email); err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	} else if exists {
		return nil, &DuplicateIdentifierError{Field: "email"}
	}
	if exists, err := s.repo.UsernameExists(ctx, params.Username); err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	} else if exists {
		return nil, &DuplicateIdentifierError{Field: "username"}
	}

	passwordHash, err := password.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     params.Username,
		DisplayName:  params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, &DuplicateIdentifierError{Field: dup.Field}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := s.IssueVerification(ctx, user); err != nil {
		// Compensating transaction: remove the account so the same email
		// can sign up again once mail delivery works.
		if delErr := s.repo.DeleteUser(ctx, user.ID); delErr != nil {
			slog.Error("signup_rollback_failed", "user_id", user.ID, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	slog.Info("signup_accepted", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func validateSignup(params *SignupParams) error {
	params.Username = strings.TrimSpace(params.Username)
	params.Name = strings.TrimSpace(params.Name)
	params.Email = NormalizeEmail(params.Email)

	if len(params.Username) < 3 {
		return &ValidationError{Field: "username"}
	}
	if params.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return &ValidationError{Field: "email"}
	}
	if params.Password == "" {
		return &ValidationError{Field: "password"}
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address for storage and
// lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SigninOutcome is the decision of a sign-in attempt that passed
// credential verification.
type SigninOutcome int

const (
	// OutcomeAuthenticated means a session cookie was minted.
	OutcomeAuthenticated SigninOutcome = iota
	// OutcomeVerificationResent means the account is unverified and a
	// fresh verification email was sent.
	OutcomeVerificationResent
	// OutcomeVerificationPending means the account is unverified but a
	// live token already exists, so no mail was sent.
	OutcomeVerificationPending
)

// SigninResult carries the outcome of a successful credential check.
// Cookie is only set for OutcomeAuthenticated.
type SigninResult struct {
	Outcome SigninOutcome
	User    *models.User
	Cookie  *http.Cookie
}

// Signin resolves the identifier, verifies the password, and decides
// between authentication and the verification sub-states. First match
// wins; the order is fixed.
func (s *Service) Signin(ctx context.Context, identifier, plaintext string) (*SigninResult, error) {
	user, err := s.resolveIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		slog.Warn("signin_failed", "user_id", user.ID, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		if s.VerificationTokenLive(user) {
			// A live token means the user already has a usable link in
			// their inbox; resending on every attempt would invite
			// mail-bombing.
			return &SigninResult{Outcome: OutcomeVerificationPending, User: user}, nil
		}
		if err := s.IssueVerification(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMailDelivery, err)
		}
		return &SigninResult{Outcome: OutcomeVerificationResent, User: user}, nil
	}

	cookie, err := s.sessions.Create(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.RecordLoginToday(ctx, user.ID)

	slog.Info("signin_success", "user_id", user.ID, "username", user.Username)
	return &SigninResult{Outcome: OutcomeAuthenticated, User: user, Cookie: cookie}, nil
}

// resolveIdentifier finds the account by email first, then by username.
func (s *Service) resolveIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	user, err = s.repo.GetUserByUsername(ctx, strings.TrimSpace(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up username: %w", err)
	}

	slog.Warn("signin_failed", "identifier", identifier, "reason", "unknown_identifier")
	return nil, ErrInvalidIdentifier
}

// Logout returns an expired cookie overwriting the client's session.
// The signed token stays cryptographically valid until natural expiry;
// this is a known limitation of stateless sessions.
func (s *Service) Logout() *http.Cookie {
	return s.sessions.Clear()
}

// CurrentUser resolves the account behind the request's session cookie.
func (s *Service) CurrentUser(ctx context.Context, r *http.Request) (*models.User, error) {
	data, err := s.sessions.Parse(r)
	if err != nil || data == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, data.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	return user, nil
}
