// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hartetoti/backend/internal/db"
)

const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// New returns a fresh SQLite database with every migration applied. It is
// closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init(db.DriverSQLite, memoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))
	return database
}
