// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"log/slog"
	"time"
)

// dayFormat is the calendar-date granularity used for login auditing.
const dayFormat = "2006-01-02"

// RecordLoginToday adds today's UTC calendar date to the account's login
// record. Duplicate inserts are no-ops, so calling it for every sign-in
// on the same day is safe, including under races. Audit failures are
// logged but never fail the sign-in.
func (s *Service) RecordLoginToday(ctx context.Context, userID string) {
	day := time.Now().UTC().Format(dayFormat)
	if err := s.repo.RecordLoginDay(ctx, userID, day); err != nil {
		slog.Warn("login_audit_failed", "user_id", userID, "day", day, "error", err)
	}
}

// LoginDates returns the distinct UTC calendar dates on which the
// account authenticated, ascending.
func (s *Service) LoginDates(ctx context.Context, userID string) ([]string, error) {
	return s.repo.LoginDays(ctx, userID)
}
