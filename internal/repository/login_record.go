// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import "context"

// RecordLoginDay inserts a calendar date (UTC, YYYY-MM-DD) into the
// login record of a user. The insert is a no-op when the date is already
// present, so concurrent sign-ins on the same day stay idempotent.
func (r *Repository) RecordLoginDay(ctx context.Context, userID, day string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO login_records (user_id, day) VALUES (?, ?)`,
		userID, day)
	return wrapError(err)
}

// LoginDays returns the distinct calendar dates on which a user
// authenticated, sorted ascending.
func (r *Repository) LoginDays(ctx context.Context, userID string) ([]string, error) {
	var days []string
	err := r.db.SelectContext(ctx, &days,
		`SELECT day FROM login_records WHERE user_id = ? ORDER BY day ASC`, userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return days, nil
}
