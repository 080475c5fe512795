package testutil

import (
	"database/sql"
	"testing"

	"github.com/Rhyoz/Project-Manager/internal/db"
)

// NewTestDB opens a migrated in-memory projects database, closed via
// t.Cleanup. Each call gets its own database, so tests never share rows.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW wraps a test database in a real UnitOfWork.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
