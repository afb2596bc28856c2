package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print the Geo DVF file URLs for the selected years and departments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := newDataset(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range ds.URLs() {
			fmt.Fprintln(out, u) //nolint:errcheck
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)
}
