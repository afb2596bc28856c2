// Package export writes loaded Geo DVF tables to CSV, XLSX and GeoJSON files.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/price-estimator/internal/geodvf"
)

// Format identifies an output encoding.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat resolves a format name, accepting "json" as GeoJSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	default:
		return "", eris.Errorf("export: unsupported format %q", name)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write encodes t to w in the given format.
func Write(w io.Writer, t *geodvf.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatGeoJSON:
		return WriteGeoJSON(w, t)
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteFile encodes t into path. An empty format is inferred from the extension.
func WriteFile(path string, t *geodvf.Table, format Format) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := Write(f, t, format); err != nil {
		f.Close()
		os.Remove(path) //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}

	zap.L().Info("table exported",
		zap.String("component", "export"),
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()),
	)
	return nil
}
