// Package sqlite registers the SQLite staging backend, used for local runs
// and scratch databases.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"eqingest/internal/storage"
)

func init() {
	storage.Register("sqlite", Open)
}

// Open opens a SQLite database and wraps it in the shared database/sql
// repository. DSN is passed straight through, e.g. "file:staging.db?_fk=1".
func Open(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return storage.NewSQLRepository(ctx, db, storage.SQLOptions{
		Dialect:      storage.DialectSQLite,
		ColumnsQuery: "SELECT name FROM pragma_table_info(?)",
		UseReturning: true,
	})
}
