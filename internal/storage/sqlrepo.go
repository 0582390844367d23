package storage

import (
	"context"
	"database/sql"
	"fmt"

	"eqingest/internal/schema"
)

// SQLOptions adapts the generic database/sql repository to one dialect.
type SQLOptions struct {
	Dialect Dialect
	Schema  string

	// ColumnsQuery lists a table's column names; it receives the table
	// name as its only parameter.
	ColumnsQuery string

	// UseReturning selects RETURNING-based file registration; otherwise
	// the MySQL LAST_INSERT_ID trick is used.
	UseReturning bool
}

// SQLRepository implements Repository over database/sql. SQLite and MySQL
// backends differ only in driver, introspection query, and id retrieval, so
// they share this implementation.
type SQLRepository struct {
	db   *sql.DB
	opts SQLOptions

	cols    map[string][]string
	mutable map[string][]string
}

// NewSQLRepository wraps an opened database handle. The caller owns driver
// selection; this constructor pings to fail fast.
func NewSQLRepository(ctx context.Context, db *sql.DB, opts SQLOptions) (*SQLRepository, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &SQLRepository{
		db:      db,
		opts:    opts,
		cols:    map[string][]string{},
		mutable: map[string][]string{},
	}, nil
}

// Validate resolves declared tables against the destination once.
func (r *SQLRepository) Validate(ctx context.Context, tables []schema.Table) error {
	for _, t := range tables {
		actual, err := r.actualColumns(ctx, t.Name)
		if err != nil {
			return err
		}
		if len(actual) == 0 {
			return fmt.Errorf("table %s not found in destination", t.Name)
		}
		cols, mutable, err := EffectiveColumns(t, actual)
		if err != nil {
			return err
		}
		r.cols[t.Name] = cols
		r.mutable[t.Name] = mutable
	}
	return nil
}

func (r *SQLRepository) actualColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, r.opts.ColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

// RegisterFile inserts or refreshes the registry row keyed on content hash.
func (r *SQLRepository) RegisterFile(ctx context.Context, f File) (int64, error) {
	reg := schema.FileRegistry
	stmt := BuildRegisterFile(r.opts.Dialect, r.qualify(reg.Name), reg.IDColumn, reg.HashColumn, reg.Columns)
	args := []any{f.Provider, f.FileType, nullable(f.TrackCode), nullable(f.RaceDate), f.FileName, f.Hash}

	if r.opts.UseReturning {
		var id int64
		if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("register file %s: %w", f.FileName, err)
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("register file %s: %w", f.FileName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("register file %s: %w", f.FileName, err)
	}
	return id, nil
}

// StageDocument writes every valid batch inside one transaction.
func (r *SQLRepository) StageDocument(ctx context.Context, fileID int64, batches []Batch) (StageResult, error) {
	res := StageResult{Staged: map[string]int{}, Skipped: map[string]error{}}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, b := range batches {
		if len(b.Rows) == 0 {
			continue
		}
		cols, ok := r.cols[b.Table.Name]
		if !ok || len(cols) == 0 {
			res.Skipped[b.Table.Name] = fmt.Errorf("table %s not validated", b.Table.Name)
			continue
		}
		if err := CheckBatch(b.Table, b.Rows); err != nil {
			res.Skipped[b.Table.Name] = err
			continue
		}

		stmt := BuildUpsert(r.opts.Dialect, r.qualify(b.Table.Name),
			cols, b.Table.Key, r.mutable[b.Table.Name], len(b.Rows))
		args := make([]any, 0, len(cols)*len(b.Rows))
		for _, row := range b.Rows {
			args = append(args, RowValues(cols, fileID, row)...)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return res, fmt.Errorf("upsert %s: %w", b.Table.Name, err)
		}
		res.Staged[b.Table.Name] = len(b.Rows)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

// Close closes the database handle.
func (r *SQLRepository) Close() { r.db.Close() }

func (r *SQLRepository) qualify(table string) string {
	return QualifyTable(r.opts.Dialect, r.opts.Schema, table)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
