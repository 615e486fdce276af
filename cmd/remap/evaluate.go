package main

import (
	"fmt"
	"os"

	"github.com/aretw0/remap/internal/cli"
	"github.com/aretw0/remap/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [source]",
	Short: "Print the terminal ranges reached by the seeds",
	Long: `Pushes every seed range through the pipeline and prints the terminal ranges, one per
line. With --report, a markdown summary of the run is printed instead, styled when
stdout is a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		visits := cli.NewVisitCounter()
		opts.Hooks = visits.Hooks()

		engine, closeEngine, err := openEngine(cmd.Context(), opts)
		defer closeEngine()
		if err != nil {
			return err
		}

		values, err := seedValues(cmd, engine)
		if err != nil {
			return err
		}

		res, err := cli.Solve(cmd.Context(), engine, values, opts.Config.Mode, false, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if report, _ := cmd.Flags().GetBool("report"); report {
			render := tui.NewRenderer(!tui.IsTerminal(os.Stdout))
			text, err := render(cli.BuildReport(engine, res, visits.Counts()))
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}

		for _, r := range res.Ranges {
			fmt.Fprintln(out, r.Translate())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("seeds", "", "Seed integers separated by spaces or commas")
	evaluateCmd.Flags().Bool("report", false, "Print a markdown report instead of raw ranges")
}
