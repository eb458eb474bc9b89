package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/millennium/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(name string) int) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	count := func(name string) int {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects WHERE name = ?`, name).Scan(&n))
		return n
	}
	return db.NewSQLiteUnitOfWork(database), count
}

func insertProject(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (name, user_id) VALUES (?, 'u1')`, name)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, count := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "Roof")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count("Roof"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, count := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Garage"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count("Garage"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, count := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "Shed")
			panic("boom")
		})
	})
	assert.Equal(t, 0, count("Shed"))
}
