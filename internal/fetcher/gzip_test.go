package fetcher

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gz")
	writeGzipFile(t, path, "payload")

	rc, err := OpenGzip(path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.NoError(t, rc.Close())
}

func TestOpenGzip_MissingFile(t *testing.T) {
	_, err := OpenGzip(filepath.Join(t.TempDir(), "missing.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip: open")
}

func TestOpenGzip_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gz")
	require.NoError(t, os.WriteFile(path, []byte("not compressed"), 0o644))

	_, err := OpenGzip(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip: read header")
}

func TestReadGzipCSV_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, _, err := ReadGzipCSV(t.Context(), path, CSVOptions{})
	assert.Error(t, err)
}
