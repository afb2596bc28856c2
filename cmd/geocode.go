package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/sells-group/price-estimator/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address to latitude and longitude",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("geocode"); err != nil {
			return err
		}
		ctx, stop := signalContext(cmd)
		defer stop()

		lat, lon, ok := geocode.AddressToCoordinates(ctx, strings.Join(args, " "), geocodeOptions()...)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "not found") //nolint:errcheck
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f\n", lat, lon) //nolint:errcheck
		return nil
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lon>",
	Short: "Resolve coordinates to a display address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("geocode"); err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "reverse: parse latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return eris.Wrapf(err, "reverse: parse longitude %q", args[1])
		}

		ctx, stop := signalContext(cmd)
		defer stop()

		address, ok := geocode.CoordinatesToAddress(ctx, lat, lon, geocodeOptions()...)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "not found") //nolint:errcheck
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), address) //nolint:errcheck
		return nil
	},
}

// geocodeOptions maps the geocode config onto client options.
func geocodeOptions() []geocode.Option {
	gc := cfg.Geocode
	opts := []geocode.Option{geocode.WithBaseURL(gc.BaseURL)}
	if gc.UserAgent != "" {
		opts = append(opts, geocode.WithUserAgent(gc.UserAgent))
	}
	if d := secondsOrZero(gc.TimeoutSecs); d > 0 {
		opts = append(opts, geocode.WithTimeout(d))
	}
	if gc.Language != "" {
		if tag, err := language.Parse(gc.Language); err == nil {
			opts = append(opts, geocode.WithLanguage(tag))
		}
	}
	return opts
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	rootCmd.AddCommand(reverseCmd)
}
