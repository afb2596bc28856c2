package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// dvfFiles serves a tiny gzip CSV for every path and counts requests.
func dvfFiles(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		fmt.Fprintf(zw, "id_mutation,valeur_fonciere,longitude,latitude\n%s,250000,2.35,48.85\n", r.URL.Path) //nolint:errcheck
		assert.NoError(t, zw.Close())
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestURLsCommand(t *testing.T) {
	out, err := execute(t, "urls",
		"--years", "2020,2021",
		"--departments", "75",
		"--base-url", "https://example.test/csv/",
		"--storage-path", t.TempDir(),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.test/csv/2020/departements/75.csv.gz",
		"https://example.test/csv/2021/departements/75.csv.gz",
	}, strings.Fields(out))
}

func TestURLsCommand_DefaultDepartments(t *testing.T) {
	out, err := execute(t, "urls", "--years", "2022", "--storage-path", t.TempDir())
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "/2022/departements/75.csv.gz"))
	assert.True(t, strings.HasSuffix(lines[3], "/2022/departements/94.csv.gz"))
}

func TestURLsCommand_NoYears(t *testing.T) {
	out, err := execute(t, "urls", "--storage-path", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestURLsCommand_InvalidYear(t *testing.T) {
	_, err := execute(t, "urls", "--years", "99", "--storage-path", t.TempDir())
	require.Error(t, err)

	var ve *geodvf.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestDownloadCleanupCommands(t *testing.T) {
	srv, hits := dvfFiles(t)
	dir := t.TempDir()
	args := []string{"--years", "2022", "--departments", "75,92", "--base-url", srv.URL, "--storage-path", dir}

	out, err := execute(t, append([]string{"download"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "downloaded 2, skipped 0")
	assert.FileExists(t, filepath.Join(dir, "2022_75.csv.gz"))
	assert.FileExists(t, filepath.Join(dir, "2022_92.csv.gz"))
	assert.Equal(t, int32(2), hits.Load())

	out, err = execute(t, append([]string{"download"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "downloaded 0, skipped 2")
	assert.Equal(t, int32(2), hits.Load())

	out, err = execute(t, append([]string{"cleanup"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 2 files")
	assert.NoFileExists(t, filepath.Join(dir, "2022_75.csv.gz"))
	assert.DirExists(t, dir)
}

func TestDownloadCommand_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out, err := execute(t, "download", "--years", "1900", "--departments", "75",
		"--base-url", srv.URL, "--storage-path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "downloaded 0")

	var se *geodvf.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestLoadCommand_SQLite(t *testing.T) {
	srv, _ := dvfFiles(t)
	dir := t.TempDir()
	args := []string{"--years", "2022", "--departments", "75,92", "--base-url", srv.URL, "--storage-path", dir}

	_, err := execute(t, append([]string{"download"}, args...)...)
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "dvf.db")
	out, err := execute(t, append([]string{"load", "--database-url", dbPath, "--table", "mutations"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 2 rows into mutations")
	assert.FileExists(t, dbPath)
}

func TestLoadCommand_NothingDownloaded(t *testing.T) {
	_, err := execute(t, "load", "--years", "2022", "--storage-path", t.TempDir(),
		"--database-url", filepath.Join(t.TempDir(), "dvf.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, geodvf.ErrNothingDownloaded)
}

func TestLoadCommand_BadDriver(t *testing.T) {
	_, err := execute(t, "load", "--driver", "oracle", "--storage-path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestExportCommand_GeoJSON(t *testing.T) {
	srv, _ := dvfFiles(t)
	dir := t.TempDir()
	args := []string{"--years", "2022", "--departments", "75", "--base-url", srv.URL, "--storage-path", dir}

	_, err := execute(t, append([]string{"download"}, args...)...)
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "paris.geojson")
	out, err := execute(t, append([]string{"export", "-o", output}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 rows")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `/2022/departements/75.csv.gz`)
}

func TestExportCommand_UnsupportedFormat(t *testing.T) {
	_, err := execute(t, "export", "-o", filepath.Join(t.TempDir(), "x.out"), "--format", "parquet",
		"--storage-path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestExportCommand_RequiresOutput(t *testing.T) {
	_, err := execute(t, "export", "--storage-path", t.TempDir())
	require.Error(t, err)
}
