package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download missing Geo DVF files into the cache directory",
	Long: `Fetches every (year, department) file that is not already cached.
Existing files are never re-fetched. The first non-200 response aborts the run;
files downloaded before it are kept.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		ds, err := newDataset(cmd)
		if err != nil {
			return err
		}

		res, err := ds.Download(ctx)
		if res != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d, skipped %d (%d bytes) into %s\n", //nolint:errcheck
				res.Downloaded, res.Skipped, res.Bytes, ds.StoragePath())
		}
		if err != nil {
			zap.L().Error("download failed", zap.String("command", "download"), zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
