package geodvf

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// dvfServer serves gzip-compressed CSV files under /{year}/departements/{dep}.csv.gz
// and records every requested path.
type dvfServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	status   map[string]int
}

func newDVFServer(t *testing.T) *dvfServer {
	t.Helper()
	s := &dvfServer{status: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		code, forced := s.status[r.URL.Path]
		s.mu.Unlock()

		if forced {
			w.WriteHeader(code)
			return
		}

		var year, dep int
		if _, err := fmt.Sscanf(r.URL.Path, "/%d/departements/%d.csv.gz", &year, &dep); err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(gzipCSV(t, year, dep))
	}))
	t.Cleanup(s.Close)
	return s
}

// failOn makes the server answer path with the given status code.
func (s *dvfServer) failOn(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = code
}

func (s *dvfServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.requests...)
}

func (s *dvfServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// gzipCSV builds a two-row Geo DVF-like file for (year, dep).
func gzipCSV(t *testing.T, year, dep int) []byte {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("id_mutation,date_mutation,valeur_fonciere,code_departement,longitude,latitude\n")
	for i := 1; i <= 2; i++ {
		fmt.Fprintf(&sb, "%d-%d-%d,%d-01-0%d,%d,%d,2.35,48.85\n", year, dep, i, year, i, 100000*i+dep, dep)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sb.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// writeCached places a cached file for (year, dep) directly on disk.
func writeCached(t *testing.T, d *Dataset, year, dep int) {
	t.Helper()
	require.NoError(t, os.WriteFile(d.FilePath(year, dep), gzipCSV(t, year, dep), 0o644))
}
