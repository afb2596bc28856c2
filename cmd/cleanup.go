package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove the cached files for the selected years and departments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := newDataset(cmd)
		if err != nil {
			return err
		}
		n, err := ds.Cleanup()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d files from %s\n", n, ds.StoragePath()) //nolint:errcheck
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
