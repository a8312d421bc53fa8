// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import "errors"

var (
	// ErrInvalidIdentifier is returned when no account matches the
	// sign-in identifier. Kept distinct from ErrInvalidCredentials to
	// preserve the existing client behavior, even though it allows
	// username/email enumeration.
	ErrInvalidIdentifier = errors.New("invalid username/email")

	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when a new password fails the policy.
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrAccountNotFound is returned when a password reset or resend is
	// requested for an unknown email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTokenNotFound is returned when no account holds a matching
	// verification token.
	ErrTokenNotFound = errors.New("verification token not found")

	// ErrTokenExpired is returned when a verification token exists but
	// its expiry has passed.
	ErrTokenExpired = errors.New("verification token expired")

	// ErrAlreadyVerified guards against re-verifying a verified account.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrResetInvalidOrExpired covers every reset-token failure: unknown
	// secret, expired secret, or a secret already consumed by a
	// concurrent reset.
	ErrResetInvalidOrExpired = errors.New("reset token invalid or expired")

	// ErrMailDelivery is returned after any required compensating action
	// has completed; the caller never observes a half-committed state.
	ErrMailDelivery = errors.New("mail delivery failed")

	// ErrUnauthenticated is returned when no valid session accompanies a
	// request.
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError reports a missing or malformed signup field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid field: " + e.Field
}

// DuplicateIdentifierError reports a username or email collision. It can
// originate from the pre-insert existence check or from the storage
// unique constraint; the constraint is the actual guarantee.
type DuplicateIdentifierError struct {
	Field string
}

func (e *DuplicateIdentifierError) Error() string {
	return e.Field + " already registered"
}
