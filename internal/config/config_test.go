// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/danisherror/productivity-manager/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func loadConfig(t *testing.T, args ...string) *config.Config {
	t.Helper()
	var cfg *config.Config
	cmd := &cli.Command{
		Name:  "app",
		Flags: config.Flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg = config.NewFromCLI(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"app"}, args...)))
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadConfig(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, cfg.Server.BaseURL, cfg.Server.FrontendURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "./data/app.db", cfg.Database.DSN)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, 86400, cfg.Session.MaxAge)
	assert.Equal(t, 24*time.Hour, cfg.Auth.VerificationTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL)
}

func TestFlagOverrides(t *testing.T) {
	cfg := loadConfig(t,
		"--port", "9000",
		"--frontend-url", "https://app.example.com/",
		"--verification-token-ttl", "1h",
		"--reset-token-ttl", "5m",
	)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://app.example.com", cfg.Server.FrontendURL, "trailing slash stripped")
	assert.Equal(t, time.Hour, cfg.Auth.VerificationTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ResetTokenTTL)
}

func TestIsSecure(t *testing.T) {
	cfg := loadConfig(t, "--base-url", "https://app.example.com")
	assert.True(t, cfg.IsSecure())

	cfg = loadConfig(t)
	assert.False(t, cfg.IsSecure())
}
