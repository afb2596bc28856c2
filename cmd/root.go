package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/price-estimator/internal/config"
	"github.com/sells-group/price-estimator/internal/fetcher"
	"github.com/sells-group/price-estimator/internal/geodvf"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "price-estimator",
	Short: "Geo DVF property transaction downloader and geocoding helper",
	Long: `Downloads the French Geo DVF property transaction files per year and department,
caches them on disk, loads them into SQLite or Postgres, exports them as CSV, XLSX
or GeoJSON, and resolves addresses against Nominatim.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntSlice("years", nil, "years to fetch (default: from config)")
	pf.IntSlice("departments", nil, "department codes (default: from config or 75,92,93,94)")
	pf.String("storage-path", "", "cache directory (default: from config or $TMPDIR/geo_dvf_cache)")
	pf.String("base-url", "", "Geo DVF base URL (default: from config)")
}

// datasetConfig applies the dataset flags on top of the loaded config.
func datasetConfig(cmd *cobra.Command) config.DatasetConfig {
	dc := cfg.Dataset
	flags := cmd.Flags()
	if flags.Changed("years") {
		dc.Years, _ = flags.GetIntSlice("years")
	}
	if flags.Changed("departments") {
		dc.Departments, _ = flags.GetIntSlice("departments")
	}
	if flags.Changed("storage-path") {
		dc.StoragePath, _ = flags.GetString("storage-path")
	}
	if flags.Changed("base-url") {
		dc.BaseURL, _ = flags.GetString("base-url")
	}
	return dc
}

// newDataset builds the dataset cache for a command.
func newDataset(cmd *cobra.Command) (*geodvf.Dataset, error) {
	dc := datasetConfig(cmd)
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: dc.UserAgent,
		Timeout:   secondsOrZero(dc.TimeoutSecs),
	})
	return geodvf.NewFromConfig(dc, f)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
