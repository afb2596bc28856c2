package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// SQLiteStore implements Sink using modernc.org/sqlite.
type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, opts Options) (*SQLiteStore, error) {
	if opts.Table == "" {
		return nil, eris.New("sqlite: table name is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, opts: opts}, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *SQLiteStore) Write(ctx context.Context, t *geodvf.Table) (int64, error) {
	if t == nil || len(t.Columns) == 0 {
		return 0, eris.New("sqlite: table has no columns")
	}
	log := zap.L().With(zap.String("component", "store.sqlite"), zap.String("table", s.opts.Table))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	name := quoteIdent(s.opts.Table)
	if s.opts.Replace {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return 0, eris.Wrapf(err, "sqlite: drop %s", s.opts.Table)
		}
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c)
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT)", name, strings.Join(cols, " TEXT, "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "sqlite: create %s", s.opts.Table)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare insert into %s", s.opts.Table)
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	for i := range t.Rows {
		if _, err := stmt.ExecContext(ctx, record(t, i)...); err != nil {
			return n, eris.Wrapf(err, "sqlite: insert row %d", i)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	log.Info("rows written", zap.Int64("rows", n))
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
