package storage

import (
	"fmt"
	"strings"
)

// Dialect selects placeholder style and conflict syntax for generated SQL.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
	DialectMySQL
)

// BuildUpsert renders a multi-row insert with last-write-wins conflict
// handling on the key columns. cols is the effective column order (keys
// first), mutable the subset overwritten on conflict. nrows must be >= 1.
//
// Postgres/SQLite use INSERT ... ON CONFLICT (key) DO UPDATE SET
// col = EXCLUDED.col; MySQL uses ON DUPLICATE KEY UPDATE col = VALUES(col)
// and relies on the table's unique natural-key index as the conflict target.
func BuildUpsert(d Dialect, table string, cols, key, mutable []string, nrows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(quoteAll(d, cols), ", "))
	b.WriteString(") VALUES ")

	arg := 1
	for row := 0; row < nrows; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for i := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(placeholder(d, arg))
			arg++
		}
		b.WriteString(")")
	}

	if len(mutable) == 0 {
		// Nothing to update: keep the existing row untouched.
		switch d {
		case DialectMySQL:
			kq := quote(d, key[0])
			fmt.Fprintf(&b, " ON DUPLICATE KEY UPDATE %s = %s", kq, kq)
		default:
			fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", strings.Join(quoteAll(d, key), ", "))
		}
		return b.String()
	}

	switch d {
	case DialectMySQL:
		sets := make([]string, len(mutable))
		for i, m := range mutable {
			q := quote(d, m)
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
		}
		fmt.Fprintf(&b, " ON DUPLICATE KEY UPDATE %s", strings.Join(sets, ", "))
	default:
		sets := make([]string, len(mutable))
		for i, m := range mutable {
			q := quote(d, m)
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
		}
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO UPDATE SET %s",
			strings.Join(quoteAll(d, key), ", "), strings.Join(sets, ", "))
	}
	return b.String()
}

// BuildRegisterFile renders the file-registry insert-or-refresh statement.
// Postgres and SQLite return file_id via RETURNING; MySQL uses the
// LAST_INSERT_ID(file_id) trick so LastInsertId() yields the existing id on
// conflict.
func BuildRegisterFile(d Dialect, table, idCol, hashCol string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = placeholder(d, i+1)
	}
	base := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoteAll(d, cols), ", "), strings.Join(ph, ", "))

	switch d {
	case DialectMySQL:
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE file_name = VALUES(file_name), %s = LAST_INSERT_ID(%s)",
			base, quote(d, idCol), quote(d, idCol))
	default:
		return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET file_name = EXCLUDED.file_name RETURNING %s",
			base, quote(d, hashCol), quote(d, idCol))
	}
}

func placeholder(d Dialect, n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func quote(d Dialect, ident string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteAll(d Dialect, idents []string) []string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = quote(d, id)
	}
	return out
}

// QualifyTable prefixes a table with a schema where the dialect supports
// schemas.
func QualifyTable(d Dialect, schemaName, table string) string {
	if schemaName == "" || d == DialectSQLite {
		return quote(d, table)
	}
	return quote(d, schemaName) + "." + quote(d, table)
}
