package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/millennium/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo for one resource table. Every call
// resolves the session first and only touches rows owned by that user, the
// way row-level security does on the hosted store.
type SQLiteRecordRepo struct {
	db   *sql.DB
	auth AuthRepo
	res  domain.Resource
}

// NewSQLiteRecordRepo creates a SQLiteRecordRepo.
func NewSQLiteRecordRepo(db *sql.DB, auth AuthRepo, res domain.Resource) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: db, auth: auth, res: res}
}

func (r *SQLiteRecordRepo) SelectAll(ctx context.Context, owner string) ([]domain.Record, error) {
	table, col, err := tableColumns(r.res)
	if err != nil {
		return nil, err
	}
	user, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, %s, user_id FROM %s WHERE user_id = ?`, col, table)
	args := []any{user.ID}
	if owner != "" {
		query += ` AND user_id = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Display, &rec.Owner); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", r.res.Noun(), err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return records, nil
}

func (r *SQLiteRecordRepo) Insert(ctx context.Context, rec domain.Record) (domain.Record, error) {
	table, col, err := tableColumns(r.res)
	if err != nil {
		return domain.Record{}, err
	}
	user, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.Owner != user.ID {
		return domain.Record{}, fmt.Errorf("new row violates row-level security policy for table %q", table)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, user_id, created_at) VALUES (?, ?, ?)`, table, col)
	res, err := r.db.ExecContext(ctx, query, rec.Display, rec.Owner, nowUTC())
	if err != nil {
		return domain.Record{}, fmt.Errorf("inserting %s: %w", r.res.Noun(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Record{}, fmt.Errorf("reading %s id: %w", r.res.Noun(), err)
	}
	return r.get(ctx, id, user.ID)
}

func (r *SQLiteRecordRepo) Update(ctx context.Context, id int64, display string) (domain.Record, error) {
	table, col, err := tableColumns(r.res)
	if err != nil {
		return domain.Record{}, err
	}
	user, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return domain.Record{}, err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE id = ? AND user_id = ?`, table, col)
	res, err := r.db.ExecContext(ctx, query, display, id, user.ID)
	if err != nil {
		return domain.Record{}, fmt.Errorf("updating %s: %w", r.res.Noun(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Record{}, domain.ErrNotFound
	}
	return r.get(ctx, id, user.ID)
}

// Delete removes the row. Deleting a row that is missing or owned by someone
// else succeeds without effect, matching the hosted store.
func (r *SQLiteRecordRepo) Delete(ctx context.Context, id int64) error {
	table, _, err := tableColumns(r.res)
	if err != nil {
		return err
	}
	user, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ?`, table)
	if _, err := r.db.ExecContext(ctx, query, id, user.ID); err != nil {
		return fmt.Errorf("deleting %s: %w", r.res.Noun(), err)
	}
	return nil
}

func (r *SQLiteRecordRepo) get(ctx context.Context, id int64, owner string) (domain.Record, error) {
	table, col, _ := tableColumns(r.res)
	query := fmt.Sprintf(`SELECT id, %s, user_id FROM %s WHERE id = ? AND user_id = ?`, col, table)
	var rec domain.Record
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&rec.ID, &rec.Display, &rec.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("scanning %s: %w", r.res.Noun(), err)
	}
	return rec, nil
}
