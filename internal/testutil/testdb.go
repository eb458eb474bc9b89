package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/millennium/internal/config"
	"github.com/alexanderramin/millennium/internal/db"
	"github.com/alexanderramin/millennium/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewTestTokenStore returns a token store inside a per-test temp dir.
func NewTestTokenStore(t *testing.T) *config.TokenStore {
	t.Helper()
	return &config.TokenStore{Path: filepath.Join(t.TempDir(), config.SessionFile)}
}

// NewLocalBackend returns a SQLite backend over a fresh in-memory database
// with the cheapest bcrypt cost.
func NewLocalBackend(t *testing.T) *repository.SQLiteBackend {
	t.Helper()
	b := repository.NewSQLiteBackend(NewTestDB(t), NewTestTokenStore(t))
	b.LocalAuth().WithHashCost(bcrypt.MinCost)
	return b
}
