// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/danisherror/productivity-manager/internal/services/token"
	"github.com/danisherror/productivity-manager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Sup3rSecret!"

func signupParams() authsvc.SignupParams {
	return authsvc.SignupParams{
		Username: "alice",
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: strongPassword,
	}
}

func TestSignup(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.EmailVerified)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.EmailVerificationTokenHash)
	assert.NotNil(t, stored.EmailVerificationExpiresAt)
	assert.NotEqual(t, strongPassword, stored.PasswordHash)

	msg := rec.Last(t)
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Verify Your Email", msg.Subject)
	assert.Contains(t, msg.Body, "http://localhost:3000/verify-email/")

	// The mail carries the raw secret; the database only its hash.
	raw := rec.LastToken(t)
	assert.NotEqual(t, raw, *stored.EmailVerificationTokenHash)
	assert.Equal(t, token.HashOpaqueSecret(raw), *stored.EmailVerificationTokenHash)
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	params := signupParams()
	params.Email = "  Alice@Example.COM "
	user, err := svc.Signup(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = repo.GetUserByEmail(ctx, "alice@example.com")
	assert.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	svc, _, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*authsvc.SignupParams)
		field  string
	}{
		{"short username", func(p *authsvc.SignupParams) { p.Username = "al" }, "username"},
		{"empty name", func(p *authsvc.SignupParams) { p.Name = "  " }, "name"},
		{"invalid email", func(p *authsvc.SignupParams) { p.Email = "not-an-email" }, "email"},
		{"empty password", func(p *authsvc.SignupParams) { p.Password = "" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := signupParams()
			tt.mutate(&params)

			_, err := svc.Signup(ctx, params)
			var verr *authsvc.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.Zero(t, rec.Count(), "no mail sent for rejected signups")
}

func TestSignupWeakPassword(t *testing.T) {
	svc, _, rec := testutil.NewAuthService(t)

	params := signupParams()
	params.Password = "weakpassword"
	_, err := svc.Signup(context.Background(), params)
	assert.ErrorIs(t, err, authsvc.ErrWeakPassword)
	assert.Zero(t, rec.Count())
}

func TestSignupDuplicates(t *testing.T) {
	svc, _, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)

	sameEmail := signupParams()
	sameEmail.Username = "bob"
	_, err = svc.Signup(ctx, sameEmail)
	var dup *authsvc.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	sameUsername := signupParams()
	sameUsername.Email = "bob@example.com"
	_, err = svc.Signup(ctx, sameUsername)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
}

func TestSignupRollsBackOnMailFailure(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	rec.Err = errors.New("smtp down")
	_, err := svc.Signup(ctx, signupParams())
	assert.ErrorIs(t, err, authsvc.ErrMailDelivery)

	// The account was removed again, so the same identifiers can retry
	// once mail delivery works.
	exists, err := repo.EmailExists(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	rec.Err = nil
	_, err = svc.Signup(ctx, signupParams())
	assert.NoError(t, err)
}

func TestSigninUnknownIdentifier(t *testing.T) {
	svc, _, _ := testutil.NewAuthService(t)

	_, err := svc.Signin(context.Background(), "ghost@example.com", strongPassword)
	assert.ErrorIs(t, err, authsvc.ErrInvalidIdentifier)
}

func TestSigninWrongPassword(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)

	_, err := svc.Signin(context.Background(), "alice@example.com", "Wr0ngPass!")
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
}

func TestSigninUnverifiedWithoutLiveToken(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	// Unverified account with no pending token at all.
	testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)

	result, err := svc.Signin(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, authsvc.OutcomeVerificationResent, result.Outcome)
	assert.Nil(t, result.Cookie)
	assert.Equal(t, 1, rec.Count())
}

func TestSigninUnverifiedWithExpiredToken(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.SetVerificationToken(ctx, user.ID, "stale-hash", time.Now().UTC().Add(-time.Hour)))

	result, err := svc.Signin(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, authsvc.OutcomeVerificationResent, result.Outcome)
	assert.Equal(t, 1, rec.Count())

	// The stale token was replaced by the resend.
	refreshed, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "stale-hash", *refreshed.EmailVerificationTokenHash)
}

func TestSigninUnverifiedWithLiveToken(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.SetVerificationToken(ctx, user.ID, "live-hash", time.Now().UTC().Add(time.Hour)))

	result, err := svc.Signin(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, authsvc.OutcomeVerificationPending, result.Outcome)
	assert.Zero(t, rec.Count(), "no mail while a usable link is out")
}

func TestSigninVerifiedByEmailAndUsername(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))

	for _, identifier := range []string{"alice@example.com", "alice", "ALICE@example.com"} {
		result, err := svc.Signin(ctx, identifier, strongPassword)
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, authsvc.OutcomeAuthenticated, result.Outcome)
		require.NotNil(t, result.Cookie)
		assert.NotEmpty(t, result.Cookie.Value)
	}
}

func TestSigninRecordsLoginDay(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))

	_, err := svc.Signin(ctx, "alice", strongPassword)
	require.NoError(t, err)
	_, err = svc.Signin(ctx, "alice", strongPassword)
	require.NoError(t, err)

	dates, err := svc.LoginDates(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{time.Now().UTC().Format("2006-01-02")}, dates)
}

func TestCurrentUser(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))

	result, err := svc.Signin(ctx, "alice", strongPassword)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(result.Cookie)

	current, err := svc.CurrentUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	// No cookie at all.
	_, err = svc.CurrentUser(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, authsvc.ErrUnauthenticated)
}

func TestCurrentUserDeletedAccount(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))

	result, err := svc.Signin(ctx, "alice", strongPassword)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteUser(ctx, user.ID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(result.Cookie)

	_, err = svc.CurrentUser(ctx, req)
	assert.ErrorIs(t, err, authsvc.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	svc, _, _ := testutil.NewAuthService(t)

	cookie := svc.Logout()
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
}

// TestAccountLifecycle walks the full path: signup, sign-in against an
// expired verification token, verification via the resent link, and a
// final authenticated sign-in that lands in the login record.
func TestAccountLifecycle(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)

	// Age the signup token past its expiry.
	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetVerificationToken(ctx, user.ID,
		*stored.EmailVerificationTokenHash, time.Now().UTC().Add(-time.Minute)))

	result, err := svc.Signin(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, authsvc.OutcomeVerificationResent, result.Outcome)
	assert.Equal(t, 2, rec.Count())

	verified, err := svc.VerifyEmail(ctx, rec.LastToken(t))
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	result, err = svc.Signin(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, authsvc.OutcomeAuthenticated, result.Outcome)
	require.NotNil(t, result.Cookie)

	dates, err := svc.LoginDates(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, dates, time.Now().UTC().Format("2006-01-02"))
}
