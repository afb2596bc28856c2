package fetcher

import (
	"context"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/rotisserie/eris"
)

// gzipFile closes both the decompressor and the underlying file.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	fErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// OpenGzip opens a gzip-compressed file for streaming decompression.
func OpenGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gzip: open %s", path)
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, eris.Wrapf(err, "gzip: read header of %s", path)
	}

	return &gzipFile{Reader: zr, file: f}, nil
}

// ReadGzipCSV decompresses and parses a .csv.gz file.
func ReadGzipCSV(ctx context.Context, path string, opts CSVOptions) ([]string, [][]string, error) {
	rc, err := OpenGzip(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close() //nolint:errcheck

	header, rows, err := ReadCSV(ctx, rc, opts)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "gzip csv: %s", path)
	}
	return header, rows, nil
}
