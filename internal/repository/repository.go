// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// DuplicateError is returned when an insert violates a unique constraint
// on users.email or users.username. The constraint is the actual
// uniqueness guarantee; pre-insert existence checks only produce
// friendlier errors for the common case.
type DuplicateError struct {
	Field string // "email" or "username"
}

func (e *DuplicateError) Error() string {
	return e.Field + " already registered"
}

// Repository wraps the database for all persistence operations.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if dup := duplicateField(err); dup != "" {
		return &DuplicateError{Field: dup}
	}
	return err
}

// duplicateField extracts the violated column from a SQLite unique
// constraint error, or returns "" for other errors.
func duplicateField(err error) string {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return ""
	}
	switch {
	case strings.Contains(msg, "users.email"):
		return "email"
	case strings.Contains(msg, "users.username"):
		return "username"
	}
	return ""
}
