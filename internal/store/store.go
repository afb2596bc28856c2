// Package store writes loaded Geo DVF tables into SQL databases.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/price-estimator/internal/config"
	"github.com/sells-group/price-estimator/internal/geodvf"
)

// Sink persists a table. Every column is stored as text.
type Sink interface {
	// Write creates the target table if needed and inserts every row,
	// returning the number of rows written.
	Write(ctx context.Context, t *geodvf.Table) (int64, error)
	Close() error
}

// Options controls the target table of a Sink.
type Options struct {
	Table   string
	Replace bool
}

// New opens the sink selected by cfg.Driver.
func New(ctx context.Context, cfg config.StoreConfig) (Sink, error) {
	opts := Options{Table: cfg.Table, Replace: cfg.Replace}
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL, opts)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, opts)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// record returns row i padded or truncated to the column count, with empty
// cells mapped to NULL.
func record(t *geodvf.Table, i int) []any {
	out := make([]any, len(t.Columns))
	row := t.Rows[i]
	for j := range out {
		if j < len(row) && row[j] != "" {
			out[j] = row[j]
		}
	}
	return out
}
