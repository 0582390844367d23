// Package mysql registers the MySQL staging backend.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"eqingest/internal/storage"
)

func init() {
	storage.Register("mysql", Open)
}

// Open opens a MySQL connection and wraps it in the shared database/sql
// repository. Upserts rely on the staging tables' unique natural-key
// indexes via ON DUPLICATE KEY UPDATE.
func Open(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	return storage.NewSQLRepository(ctx, db, storage.SQLOptions{
		Dialect:      storage.DialectMySQL,
		Schema:       cfg.Schema,
		ColumnsQuery: "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?",
		UseReturning: false,
	})
}
