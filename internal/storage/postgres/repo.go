// Package postgres implements the staging repository on Postgres using
// pgx v5. Upserts run as multi-row INSERT ... ON CONFLICT statements inside
// one transaction per document.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eqingest/internal/schema"
	"eqingest/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  storage.Config

	// resolved at Validate time: table name -> effective column sets
	cols    map[string][]string
	mutable map[string][]string
}

// NewRepository connects a pool and pings it to fail fast on a bad DSN.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{
		pool:    pool,
		cfg:     cfg,
		cols:    map[string][]string{},
		mutable: map[string][]string{},
	}, nil
}

// Validate resolves declared tables against information_schema once.
func (r *Repository) Validate(ctx context.Context, tables []schema.Table) error {
	for _, t := range tables {
		actual, err := r.actualColumns(ctx, t.Name)
		if err != nil {
			return err
		}
		if len(actual) == 0 {
			return fmt.Errorf("table %s not found in destination schema %q", t.Name, r.schemaName())
		}
		cols, mutable, err := storage.EffectiveColumns(t, actual)
		if err != nil {
			return err
		}
		r.cols[t.Name] = cols
		r.mutable[t.Name] = mutable
	}
	return nil
}

func (r *Repository) actualColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2`,
		r.schemaName(), table)
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
func (r *Repository) RegisterFile(ctx context.Context, f storage.File) (int64, error) {
	reg := schema.FileRegistry
	sql := storage.BuildRegisterFile(storage.DialectPostgres,
		r.qualify(reg.Name), reg.IDColumn, reg.HashColumn, reg.Columns)

	var id int64
	err := r.pool.QueryRow(ctx, sql,
		f.Provider, f.FileType, nullable(f.TrackCode), nullable(f.RaceDate), f.FileName, f.Hash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("register file %s: %w", f.FileName, err)
	}
	return id, nil
}

// StageDocument writes every valid batch in one transaction. Batches that
// fail key validation or whose tables were not resolved are skipped without
// failing siblings; any database error rolls the whole document back.
func (r *Repository) StageDocument(ctx context.Context, fileID int64, batches []storage.Batch) (storage.StageResult, error) {
	res := storage.StageResult{Staged: map[string]int{}, Skipped: map[string]error{}}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range batches {
		if len(b.Rows) == 0 {
			continue
		}
		cols, ok := r.cols[b.Table.Name]
		if !ok || len(cols) == 0 {
			res.Skipped[b.Table.Name] = fmt.Errorf("table %s not validated", b.Table.Name)
			continue
		}
		if err := storage.CheckBatch(b.Table, b.Rows); err != nil {
			res.Skipped[b.Table.Name] = err
			continue
		}

		sql := storage.BuildUpsert(storage.DialectPostgres, r.qualify(b.Table.Name),
			cols, b.Table.Key, r.mutable[b.Table.Name], len(b.Rows))
		args := make([]any, 0, len(cols)*len(b.Rows))
		for _, row := range b.Rows {
			args = append(args, storage.RowValues(cols, fileID, row)...)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return res, fmt.Errorf("upsert %s: %w", b.Table.Name, err)
		}
		res.Staged[b.Table.Name] = len(b.Rows)
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

func (r *Repository) schemaName() string {
	if r.cfg.Schema == "" {
		return "public"
	}
	return r.cfg.Schema
}

func (r *Repository) qualify(table string) string {
	return storage.QualifyTable(storage.DialectPostgres, r.schemaName(), table)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
