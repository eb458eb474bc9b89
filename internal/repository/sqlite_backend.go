package repository

import (
	"database/sql"

	"github.com/alexanderramin/millennium/internal/config"
	"github.com/alexanderramin/millennium/internal/db"
	"github.com/alexanderramin/millennium/internal/domain"
)

// SQLiteBackend serves auth and records from a local SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	auth *SQLiteAuthRepo
}

// NewSQLiteBackend wires the local backend over an open database.
func NewSQLiteBackend(database *sql.DB, tokens *config.TokenStore) *SQLiteBackend {
	return &SQLiteBackend{
		db:   database,
		auth: NewSQLiteAuthRepo(database, db.NewSQLiteUnitOfWork(database), tokens),
	}
}

func (b *SQLiteBackend) Auth() AuthRepo { return b.auth }

// LocalAuth exposes the concrete auth repo for tuning in tests.
func (b *SQLiteBackend) LocalAuth() *SQLiteAuthRepo { return b.auth }

func (b *SQLiteBackend) Records(res domain.Resource) RecordRepo {
	return NewSQLiteRecordRepo(b.db, b.auth, res)
}

var _ Backend = (*SQLiteBackend)(nil)
