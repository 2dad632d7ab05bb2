package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory database, closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openAndClose(t, ":memory:")
}

// NewFileTestDB opens a migrated database file under t.TempDir, with the
// same pragmas and locking a real installation uses.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openAndClose(t, filepath.Join(t.TempDir(), "agenda.db"))
}

func openAndClose(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
