package main

import (
	"fmt"

	"github.com/aretw0/remap/internal/cli"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve [source]",
	Short: "Print the lowest terminal value reachable from the seeds",
	Long: `Reads the seeds (from the source or --seeds) according to the seed mode and prints
the lowest value of the terminal domain. With --both, the seeds are read both as
single points and as (start, length) pairs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		engine, closeEngine, err := openEngine(cmd.Context(), opts)
		defer closeEngine()
		if err != nil {
			return err
		}

		values, err := seedValues(cmd, engine)
		if err != nil {
			return err
		}

		modes := []domain.SeedMode{opts.Config.Mode}
		if both, _ := cmd.Flags().GetBool("both"); both {
			modes = []domain.SeedMode{domain.SeedPoints, domain.SeedPairs}
		}

		parallel := opts.Config.Workers > 1
		for _, mode := range modes {
			res, err := cli.Solve(cmd.Context(), engine, values, mode, parallel, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", mode, err)
			}
			opts.Logger.Debug("Solved", "mode", mode, "duration", res.Duration)
			fmt.Fprintf(cmd.OutOrStdout(), "lowest %s (%s): %d\n", engine.Pipeline().Terminal(), mode, res.Minimum)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().String("seeds", "", "Seed integers separated by spaces or commas")
	solveCmd.Flags().Bool("both", false, "Solve for points and for pairs")
}
