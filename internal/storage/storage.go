// Package storage contains the storage-agnostic staging contracts: the
// repository interface, batch shapes, file hashing, upsert SQL generation,
// and the backend factory. Dialect-specific repositories live in
// subpackages and register themselves with the factory.
package storage

import (
	"context"
	"fmt"
	"sort"

	"eqingest/internal/records"
	"eqingest/internal/schema"
)

// File describes one source file for registration. Empty TrackCode/RaceDate
// are stored as NULL.
type File struct {
	Provider  string
	FileType  string
	TrackCode string
	RaceDate  string
	FileName  string
	Hash      string
}

// Batch is one entity type's rows for one document.
type Batch struct {
	Table schema.Table
	Rows  []records.Record
}

// StageResult reports the outcome of staging one document. Skipped maps
// entity table name to the reason its batch was not written; skipped batches
// do not fail sibling entity types.
type StageResult struct {
	Staged  map[string]int
	Skipped map[string]error
}

// Repository is a staging destination. Implementations must make
// StageDocument atomic: either every non-skipped batch commits or none do.
type Repository interface {
	// Validate resolves the declared tables against the actual destination
	// schema once, at startup. Missing non-key columns are tolerated and
	// excluded from later writes; a missing table or key column is a
	// configuration error.
	Validate(ctx context.Context, tables []schema.Table) error

	// RegisterFile inserts or refreshes the file registry row keyed on
	// content hash and returns the durable file identifier. Registering
	// identical content again returns the same identifier and only
	// refreshes the display name.
	RegisterFile(ctx context.Context, f File) (int64, error)

	// StageDocument upserts all batches for one document in a single
	// transaction, attaching fileID to every row.
	StageDocument(ctx context.Context, fileID int64, batches []Batch) (StageResult, error)

	Close()
}

// Config carries backend-independent connection settings.
type Config struct {
	DSN string

	// Schema qualifies table names on backends that support it
	// (Postgres). Empty means unqualified.
	Schema string
}

// Factory constructs a backend repository.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var factories = map[string]Factory{}

// Register installs a backend factory under a driver name. Called from
// backend package init functions.
func Register(name string, f Factory) {
	factories[name] = f
}

// Open constructs the repository for the named driver.
func Open(ctx context.Context, driver string, cfg Config) (Repository, error) {
	f, ok := factories[driver]
	if !ok {
		return nil, fmt.Errorf("unknown storage driver %q (have %v)", driver, Drivers())
	}
	return f(ctx, cfg)
}

// Drivers lists registered backend names, sorted.
func Drivers() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EffectiveColumns intersects a table's wanted columns with the columns
// actually present in the destination. Key columns must all be present;
// missing mutable columns are silently excluded. The returned slices keep
// declaration order so generated SQL is deterministic.
func EffectiveColumns(t schema.Table, actual map[string]bool) (cols, mutable []string, err error) {
	for _, k := range t.Key {
		if !actual[k] {
			return nil, nil, fmt.Errorf("table %s: key column %q missing from destination", t.Name, k)
		}
	}
	cols = append(cols, t.Key...)
	for _, m := range t.Mutable {
		if actual[m] {
			cols = append(cols, m)
			mutable = append(mutable, m)
		}
	}
	return cols, mutable, nil
}

// CheckBatch verifies every row satisfies the table's key nullability
// before anything is written. A violation fails the whole batch for that
// entity type.
func CheckBatch(t schema.Table, rows []records.Record) error {
	for i, r := range rows {
		for _, k := range t.Key {
			if k == "source_file_id" {
				continue // attached by the writer
			}
			if r[k] == nil && !t.KeyNullable(k) {
				return fmt.Errorf("table %s: row %d: key column %q is null", t.Name, i, k)
			}
		}
	}
	return nil
}

// RowValues binds one record to the effective column order, substituting
// fileID for source_file_id.
func RowValues(cols []string, fileID int64, r records.Record) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		if c == "source_file_id" {
			out[i] = fileID
			continue
		}
		out[i] = r[c]
	}
	return out
}
