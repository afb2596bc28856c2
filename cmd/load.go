package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/price-estimator/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the cached Geo DVF files into SQLite or Postgres",
	Long: `Reads every cached file for the selected years and departments and writes
the rows into store.table using store.driver (sqlite or postgres). All columns
are stored as text. Use --replace to drop the table first.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		sc := cfg.Store
		if cmd.Flags().Changed("driver") {
			sc.Driver, _ = cmd.Flags().GetString("driver")
		}
		if cmd.Flags().Changed("database-url") {
			sc.DatabaseURL, _ = cmd.Flags().GetString("database-url")
		}
		if cmd.Flags().Changed("table") {
			sc.Table, _ = cmd.Flags().GetString("table")
		}
		if cmd.Flags().Changed("replace") {
			sc.Replace, _ = cmd.Flags().GetBool("replace")
		}
		cfg.Store = sc
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		ds, err := newDataset(cmd)
		if err != nil {
			return err
		}
		tbl, err := ds.Open(ctx)
		if err != nil {
			return err
		}

		sink, err := store.New(ctx, sc)
		if err != nil {
			return eris.Wrap(err, "load: open store")
		}
		defer sink.Close() //nolint:errcheck

		n, err := sink.Write(ctx, tbl)
		if err != nil {
			return eris.Wrap(err, "load: write")
		}

		zap.L().Info("load complete",
			zap.String("command", "load"),
			zap.String("driver", sc.Driver),
			zap.Int64("rows", n),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows into %s\n", n, sc.Table) //nolint:errcheck
		return nil
	},
}

func init() {
	loadCmd.Flags().String("driver", "", "sqlite or postgres (default: from config)")
	loadCmd.Flags().String("database-url", "", "SQLite path or Postgres URL (default: from config)")
	loadCmd.Flags().String("table", "", "target table (default: from config)")
	loadCmd.Flags().Bool("replace", false, "drop the table before loading")
	rootCmd.AddCommand(loadCmd)
}
