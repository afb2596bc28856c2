package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/price-estimator/internal/db"
	"github.com/sells-group/price-estimator/internal/geodvf"
)

// PostgresStore implements Sink using COPY over a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	opts    Options
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, opts Options) (*PostgresStore, error) {
	if opts.Table == "" {
		return nil, eris.New("postgres: table name is required")
	}
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, opts: opts, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool, opts Options) *PostgresStore {
	return &PostgresStore{pool: pool, opts: opts}
}

func (s *PostgresStore) Write(ctx context.Context, t *geodvf.Table) (int64, error) {
	if t == nil || len(t.Columns) == 0 {
		return 0, eris.New("postgres: table has no columns")
	}
	if err := db.EnsureTable(ctx, s.pool, s.opts.Table, t.Columns, s.opts.Replace); err != nil {
		return 0, eris.Wrap(err, "postgres: ensure table")
	}

	rows := make([][]any, len(t.Rows))
	for i := range t.Rows {
		rows[i] = record(t, i)
	}
	n, err := db.CopyFrom(ctx, s.pool, s.opts.Table, t.Columns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy rows")
	}

	zap.L().Info("rows written",
		zap.String("component", "store.postgres"),
		zap.String("table", s.opts.Table),
		zap.Int64("rows", n),
	)
	return n, nil
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
