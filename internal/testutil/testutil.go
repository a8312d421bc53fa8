// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danisherror/productivity-manager/internal/config"
	"github.com/danisherror/productivity-manager/internal/database"
	"github.com/danisherror/productivity-manager/internal/models"
	"github.com/danisherror/productivity-manager/internal/repository"
	authsvc "github.com/danisherror/productivity-manager/internal/services/auth"
	"github.com/danisherror/productivity-manager/internal/services/password"
	"github.com/danisherror/productivity-manager/internal/services/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// HashKey is a valid 32-byte hex-encoded session key for tests.
const HashKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// NewTestDB creates an in-memory SQLite database for tests. Returns both
// the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewSessionManager creates a session manager with test keys.
func NewSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(&config.SessionConfig{
		CookieName: "token",
		MaxAge:     3600,
		HashKey:    HashKey,
	}, false)
	require.NoError(t, err)
	return mgr
}

// NewAuthService wires an auth service against an in-memory database and
// a recording mailer.
func NewAuthService(t *testing.T) (*authsvc.Service, *repository.Repository, *MailRecorder) {
	t.Helper()
	_, repo := NewTestDB(t)
	rec := &MailRecorder{}
	svc := authsvc.NewService(repo, rec, NewSessionManager(t), &config.AuthConfig{
		VerificationTokenTTL: 24 * time.Hour,
		ResetTokenTTL:        15 * time.Minute,
	}, "http://localhost:3000")
	return svc, repo, rec
}

// NewTestUser creates a user directly in the database. The password is
// hashed; the account starts unverified.
func NewTestUser(t *testing.T, repo *repository.Repository, username, email, plaintext string) *models.User {
	t.Helper()
	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// Message is a captured outgoing mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// MailRecorder implements mailer.Mailer and captures sent messages. When
// Err is set, Send fails with it instead.
type MailRecorder struct {
	mu       sync.Mutex
	Err      error
	Messages []Message
}

// Send records the message, or fails with the configured error.
func (m *MailRecorder) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Count returns the number of recorded messages.
func (m *MailRecorder) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

// Last returns the most recently recorded message.
func (m *MailRecorder) Last(t *testing.T) Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Messages, "no mail recorded")
	return m.Messages[len(m.Messages)-1]
}

// LastToken extracts the opaque secret from the link in the most recent
// message.
func (m *MailRecorder) LastToken(t *testing.T) string {
	t.Helper()
	body := m.Last(t).Body
	for _, field := range strings.Fields(body) {
		if strings.HasPrefix(field, "http") {
			return field[strings.LastIndex(field, "/")+1:]
		}
	}
	t.Fatalf("no link found in mail body: %q", body)
	return ""
}
