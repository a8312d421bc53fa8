// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"
	"time"

	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/danisherror/productivity-manager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmail(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)

	verified, err := svc.VerifyEmail(ctx, rec.LastToken(t))
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.EmailVerificationTokenHash)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.EmailVerificationTokenHash)
	assert.Nil(t, stored.EmailVerificationExpiresAt)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc, _, _ := testutil.NewAuthService(t)

	_, err := svc.VerifyEmail(context.Background(), "never-issued")
	assert.ErrorIs(t, err, authsvc.ErrTokenNotFound)
}

func TestVerifyEmailTokenSingleUse(t *testing.T) {
	svc, _, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)

	raw := rec.LastToken(t)
	_, err = svc.VerifyEmail(ctx, raw)
	require.NoError(t, err)

	// Verification clears the token, so the second attempt cannot find it.
	_, err = svc.VerifyEmail(ctx, raw)
	assert.ErrorIs(t, err, authsvc.ErrTokenNotFound)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetVerificationToken(ctx, user.ID,
		*stored.EmailVerificationTokenHash, time.Now().UTC().Add(-time.Minute)))

	_, err = svc.VerifyEmail(ctx, rec.LastToken(t))
	assert.ErrorIs(t, err, authsvc.ErrTokenExpired)

	unchanged, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.EmailVerified)
}

func TestResendVerification(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)
	firstToken := rec.LastToken(t)

	require.NoError(t, svc.ResendVerification(ctx, "alice@example.com"))
	assert.Equal(t, 2, rec.Count())

	// The resend rotates the secret; only the latest one verifies.
	secondToken := rec.LastToken(t)
	assert.NotEqual(t, firstToken, secondToken)

	_, err = svc.VerifyEmail(ctx, firstToken)
	assert.ErrorIs(t, err, authsvc.ErrTokenNotFound)

	verified, err := svc.VerifyEmail(ctx, secondToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, err = repo.GetUserByID(ctx, user.ID)
	assert.NoError(t, err)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	svc, _, _ := testutil.NewAuthService(t)

	err := svc.ResendVerification(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, authsvc.ErrAccountNotFound)
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	svc, repo, rec := testutil.NewAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupParams())
	require.NoError(t, err)
	_, err = svc.VerifyEmail(ctx, rec.LastToken(t))
	require.NoError(t, err)

	err = svc.ResendVerification(ctx, user.Email)
	assert.ErrorIs(t, err, authsvc.ErrAlreadyVerified)
	assert.Equal(t, 1, rec.Count())

	_, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestVerificationTokenLive(t *testing.T) {
	svc, repo, _ := testutil.NewAuthService(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice", "alice@example.com", strongPassword)
	assert.False(t, svc.VerificationTokenLive(user), "no token at all")

	require.NoError(t, repo.SetVerificationToken(ctx, user.ID, "hash", time.Now().UTC().Add(time.Hour)))
	live, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, svc.VerificationTokenLive(live))

	require.NoError(t, repo.SetVerificationToken(ctx, user.ID, "hash", time.Now().UTC().Add(-time.Hour)))
	expired, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, svc.VerificationTokenLive(expired))
}
