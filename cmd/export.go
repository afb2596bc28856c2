package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/price-estimator/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cached Geo DVF files as CSV, XLSX or GeoJSON",
	Long: `Reads every cached file and writes one combined file. The format is taken
from --format or inferred from the --output extension. GeoJSON output contains
one point per transaction with coordinates.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		output, _ := cmd.Flags().GetString("output")
		formatName, _ := cmd.Flags().GetString("format")

		var format export.Format
		if formatName != "" {
			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			format = f
		}

		ds, err := newDataset(cmd)
		if err != nil {
			return err
		}
		tbl, err := ds.Open(ctx)
		if err != nil {
			return err
		}

		if err := export.WriteFile(output, tbl, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", tbl.Len(), output) //nolint:errcheck
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file path")
	exportCmd.Flags().String("format", "", "csv, xlsx or geojson (default: from --output extension)")
	_ = exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}
