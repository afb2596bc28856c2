// Package fetcher downloads remote data files and reads the gzip-compressed CSV files they contain.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	LazyQuotes bool
}

// ReadCSV reads a CSV stream whose first record is the header and returns the
// header and the remaining records in file order. Records may have a
// different field count than the header.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: read header")
	}

	var rows [][]string
	for {
		if ctx.Err() != nil {
			return nil, nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrapf(err, "csv: read row %d", len(rows)+1)
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}
