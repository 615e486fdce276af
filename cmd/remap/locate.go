package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <point> [source]",
	Short: "Map a single integer through the pipeline",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		point, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: point %q is not an integer", domain.ErrMalformedInput, args[0])
		}

		opts, err := loadOptions(cmd, args[1:])
		if err != nil {
			return err
		}
		engine, closeEngine, err := openEngine(cmd.Context(), opts)
		defer closeEngine()
		if err != nil {
			return err
		}

		location, err := engine.Locate(point)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
