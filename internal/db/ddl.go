package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Identifier splits a possibly schema-qualified table name.
func Identifier(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}
	}
	return pgx.Identifier{table}
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string, suffix string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize() + suffix
	}
	return strings.Join(quoted, ", ")
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with one
// TEXT column per name.
func CreateTableSQL(table string, columns []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		Identifier(table).Sanitize(), quoteAndJoin(columns, " TEXT"))
}

// DropTableSQL returns a DROP TABLE IF EXISTS statement.
func DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + Identifier(table).Sanitize()
}

// EnsureTable creates the text table, dropping any existing one first when replace is set.
func EnsureTable(ctx context.Context, pool Pool, table string, columns []string, replace bool) error {
	if len(columns) == 0 {
		return eris.Errorf("db: create %s: no columns", table)
	}
	if replace {
		if _, err := pool.Exec(ctx, DropTableSQL(table)); err != nil {
			return eris.Wrapf(err, "db: drop %s", table)
		}
	}
	if _, err := pool.Exec(ctx, CreateTableSQL(table, columns)); err != nil {
		return eris.Wrapf(err, "db: create %s", table)
	}
	return nil
}
