// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/hoaxify/internal/db"
)

// New returns a fresh in-memory SQLite database with all migrations applied.
// The database lives as long as its single connection, closed on cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
