// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session mints and validates signed, self-contained session
// cookies. Tokens carry the account identity and expiry; nothing is
// stored server-side, so logout can only discard the client's copy.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/danisherror/productivity-manager/internal/config"
	"github.com/gorilla/securecookie"
)

// keyLength is the required length of hash and block keys in bytes.
const keyLength = 32

// Data is the payload carried inside a session cookie.
type Data struct { //nolint:govet // fieldalignment: readability over optimization
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager creates, parses and clears session cookies.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// NewManager creates a session manager from config. An empty hash key
// generates a random one, which invalidates all sessions on restart and
// is only acceptable in development.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey, "session hash key")
	if err != nil {
		return nil, err
	}
	if hashKey == nil {
		hashKey = securecookie.GenerateRandomKey(keyLength)
	}

	blockKey, err := decodeKey(cfg.BlockKey, "session block key")
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)

	return &Manager{
		codec:      codec,
		cookieName: cfg.CookieName,
		maxAge:     time.Duration(cfg.MaxAge) * time.Second,
		secure:     secure,
	}, nil
}

func decodeKey(key, what string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	decoded, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", what, err)
	}
	if len(decoded) != keyLength {
		return nil, fmt.Errorf("invalid %s: must be %d bytes, got %d", what, keyLength, len(decoded))
	}
	return decoded, nil
}

// Create mints a signed session cookie for the given account.
func (m *Manager) Create(userID, username string) (*http.Cookie, error) {
	now := time.Now().UTC()
	data := Data{
		UserID:    userID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.maxAge),
	}

	encoded, err := m.codec.Encode(m.cookieName, data)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse extracts the session data from the request cookie. It returns
// (nil, nil) when no cookie is present or the cookie is invalid, tampered
// with, or expired.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, nil //nolint:nilnil // absent cookie is not an error
	}

	var data Data
	if err := m.codec.Decode(m.cookieName, cookie.Value, &data); err != nil {
		return nil, nil //nolint:nilnil // invalid cookie is treated as no session
	}

	if time.Now().UTC().After(data.ExpiresAt) {
		return nil, nil //nolint:nilnil // expired
	}

	return &data, nil
}

// Clear returns an already-expired empty cookie that overwrites the
// client's session. The signed token itself stays valid until natural
// expiry; there is no server-side revocation.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GenerateKey returns a fresh random key, hex-encoded, suitable for the
// hash or block key settings.
func GenerateKey() string {
	key := make([]byte, keyLength)
	_, _ = rand.Read(key)
	return hex.EncodeToString(key)
}
