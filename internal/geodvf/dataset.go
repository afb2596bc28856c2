// Package geodvf downloads, caches and loads the Geo DVF property transaction
// files published by data.gouv.fr, one gzip-compressed CSV per year and
// department.
package geodvf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/price-estimator/internal/config"
	"github.com/sells-group/price-estimator/internal/fetcher"
)

// DefaultBaseURL is the data.gouv.fr location of the latest Geo DVF export.
const DefaultBaseURL = "https://files.data.gouv.fr/geo-dvf/latest/csv"

// DefaultCacheDir is the directory name used under os.TempDir when no storage path is given.
const DefaultCacheDir = "geo_dvf_cache"

// defaultDepartments are the Île-de-France inner departments (Paris and the petite couronne).
var defaultDepartments = [...]int{75, 92, 93, 94}

// DefaultDepartments returns a fresh copy of the default department codes.
func DefaultDepartments() []int {
	out := make([]int, len(defaultDepartments))
	copy(out, defaultDepartments[:])
	return out
}

// Key identifies one dataset file.
type Key struct {
	Year       int
	Department int
}

func (k Key) String() string {
	return fmt.Sprintf("%d_%d", k.Year, k.Department)
}

// Dataset is an on-disk cache of Geo DVF files for a fixed set of years and
// departments. The configuration never changes after New returns.
type Dataset struct {
	years       []int
	departments []int
	storagePath string
	baseURL     string
	fetcher     fetcher.Fetcher
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithYears sets the requested years.
func WithYears(years ...int) Option {
	return func(d *Dataset) {
		d.years = append([]int{}, years...)
	}
}

// WithDepartments sets the requested departments. An empty call selects no
// departments, unlike omitting the option which selects DefaultDepartments.
func WithDepartments(departments ...int) Option {
	return func(d *Dataset) {
		d.departments = append([]int{}, departments...)
	}
}

// WithStoragePath sets the cache directory.
func WithStoragePath(path string) Option {
	return func(d *Dataset) {
		d.storagePath = path
	}
}

// WithBaseURL sets the URL prefix files are fetched from.
func WithBaseURL(baseURL string) Option {
	return func(d *Dataset) {
		d.baseURL = baseURL
	}
}

// WithFetcher sets the fetcher used by Download.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(d *Dataset) {
		d.fetcher = f
	}
}

// New validates the configuration and creates the storage directory.
func New(opts ...Option) (*Dataset, error) {
	d := &Dataset{
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.departments == nil {
		d.departments = DefaultDepartments()
	}
	if d.years == nil {
		d.years = []int{}
	}

	if err := validate(d.years, d.departments); err != nil {
		return nil, err
	}

	d.baseURL = strings.TrimRight(d.baseURL, "/")
	if d.baseURL == "" {
		return nil, &ValidationError{Field: "base_url", Reason: "must not be empty"}
	}

	if d.storagePath == "" {
		d.storagePath = filepath.Join(os.TempDir(), DefaultCacheDir)
	}
	abs, err := filepath.Abs(d.storagePath)
	if err != nil {
		return nil, eris.Wrapf(err, "geodvf: resolve storage path %s", d.storagePath)
	}
	d.storagePath = abs

	if d.fetcher == nil {
		d.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}

	if err := os.MkdirAll(d.storagePath, 0o755); err != nil {
		return nil, eris.Wrapf(err, "geodvf: create storage dir %s", d.storagePath)
	}

	return d, nil
}

// NewFromConfig builds a Dataset from configuration. A nil departments list
// in cfg selects DefaultDepartments.
func NewFromConfig(cfg config.DatasetConfig, f fetcher.Fetcher) (*Dataset, error) {
	opts := []Option{
		WithYears(cfg.Years...),
		WithStoragePath(cfg.StoragePath),
	}
	if cfg.Departments != nil {
		opts = append(opts, WithDepartments(cfg.Departments...))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if f != nil {
		opts = append(opts, WithFetcher(f))
	}
	return New(opts...)
}

func validate(years, departments []int) error {
	for i, y := range years {
		if y < 1000 || y > 9999 {
			return &ValidationError{Field: "years", Reason: fmt.Sprintf("element %d (%d) is not a four-digit year", i, y)}
		}
	}
	for i, dep := range departments {
		if dep <= 0 {
			return &ValidationError{Field: "departments", Reason: fmt.Sprintf("element %d (%d) is not a department code", i, dep)}
		}
	}
	return nil
}

// Years returns a copy of the requested years.
func (d *Dataset) Years() []int { return append([]int{}, d.years...) }

// Departments returns a copy of the requested departments.
func (d *Dataset) Departments() []int { return append([]int{}, d.departments...) }

// StoragePath returns the absolute cache directory.
func (d *Dataset) StoragePath() string { return d.storagePath }

// BaseURL returns the URL prefix.
func (d *Dataset) BaseURL() string { return d.baseURL }

// URL returns the remote location of the file for (year, department).
func (d *Dataset) URL(year, department int) string {
	return fmt.Sprintf("%s/%d/departements/%d.csv.gz", d.baseURL, year, department)
}

// FilePath returns the local cache path of the file for (year, department).
func (d *Dataset) FilePath(year, department int) string {
	return filepath.Join(d.storagePath, fmt.Sprintf("%d_%d.csv.gz", year, department))
}

// Keys returns every (year, department) pair, years-major.
func (d *Dataset) Keys() []Key {
	keys := make([]Key, 0, len(d.years)*len(d.departments))
	for _, y := range d.years {
		for _, dep := range d.departments {
			keys = append(keys, Key{Year: y, Department: dep})
		}
	}
	return keys
}

// URLs returns the remote location of every requested file, in Keys order.
func (d *Dataset) URLs() []string {
	keys := d.Keys()
	urls := make([]string, 0, len(keys))
	for _, k := range keys {
		urls = append(urls, d.URL(k.Year, k.Department))
	}
	return urls
}

// Cached returns the keys whose files are present on disk, in Keys order.
func (d *Dataset) Cached() []Key {
	var keys []Key
	for _, k := range d.Keys() {
		if fileExists(d.FilePath(k.Year, k.Department)) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Cleanup removes the cached files for the requested keys and returns how
// many were removed. The storage directory and unrelated files are kept.
func (d *Dataset) Cleanup() (int, error) {
	log := zap.L().With(zap.String("component", "geodvf.cleanup"))

	removed := 0
	for _, k := range d.Keys() {
		path := d.FilePath(k.Year, k.Department)
		if !fileExists(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, eris.Wrapf(err, "geodvf: remove %s", path)
		}
		log.Debug("removed cached file", zap.String("path", path))
		removed++
	}

	log.Info("cleanup complete", zap.Int("removed", removed))
	return removed, nil
}

// Download fetches every requested file that is not already cached. It stops
// at the first failed request; files written before the failure are kept.
func (d *Dataset) Download(ctx context.Context) (*DownloadResult, error) {
	log := zap.L().With(zap.String("component", "geodvf.download"))
	result := &DownloadResult{}

	for _, k := range d.Keys() {
		if err := ctx.Err(); err != nil {
			return result, eris.Wrap(err, "geodvf: download cancelled")
		}

		path := d.FilePath(k.Year, k.Department)
		if fileExists(path) {
			log.Debug("file already cached, skipping", zap.String("key", k.String()), zap.String("path", path))
			result.Skipped++
			continue
		}

		url := d.URL(k.Year, k.Department)
		log.Info("downloading", zap.String("key", k.String()), zap.String("url", url))

		n, err := d.fetcher.DownloadToFile(ctx, url, path)
		if err != nil {
			log.Error("download failed", zap.String("url", url), zap.Error(err))
			return result, downloadError(url, err)
		}

		result.Downloaded++
		result.Bytes += n
		result.Paths = append(result.Paths, path)
	}

	log.Info("download complete",
		zap.Int("downloaded", result.Downloaded),
		zap.Int("skipped", result.Skipped),
		zap.Int64("bytes", result.Bytes),
	)
	return result, nil
}

// DownloadResult summarizes a Download call.
type DownloadResult struct {
	Downloaded int      `json:"downloaded"`
	Skipped    int      `json:"skipped"`
	Bytes      int64    `json:"bytes"`
	Paths      []string `json:"paths,omitempty"`
}

// Open loads every cached file for the requested keys into one table. Rows
// are appended in file order, files in Keys order.
func (d *Dataset) Open(ctx context.Context) (*Table, error) {
	log := zap.L().With(zap.String("component", "geodvf.open"))

	keys := d.Cached()
	if len(keys) == 0 {
		return nil, ErrNothingDownloaded
	}

	table := &Table{}
	for _, k := range keys {
		path := d.FilePath(k.Year, k.Department)
		header, rows, err := fetcher.ReadGzipCSV(ctx, path, fetcher.CSVOptions{})
		if err != nil {
			return nil, eris.Wrapf(err, "geodvf: load %s", k)
		}
		table.Append(&Table{Columns: header, Rows: rows})
		log.Debug("loaded file", zap.String("key", k.String()), zap.Int("rows", len(rows)))
	}

	log.Info("table loaded", zap.Int("files", len(keys)), zap.Int("rows", table.Len()))
	return table, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
