// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"testing"

	"github.com/danisherror/productivity-manager/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRunsMigrations(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "login_records"} {
		var count int
		err = db.Get(&count,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s missing", table)
	}
}

func TestUniqueIndexes(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var indexes []string
	err = db.Select(&indexes,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'users'`)
	require.NoError(t, err)

	assert.Contains(t, indexes, "idx_users_email")
	assert.Contains(t, indexes, "idx_users_username")
}
