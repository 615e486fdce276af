package main

import (
	"fmt"

	"github.com/aretw0/remap/internal/cli"
	"github.com/aretw0/remap/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [source]",
	Short: "Export the stage chain as a Mermaid diagram",
	Long: `Inspects the pipeline and outputs a Mermaid diagram (graph LR) of the stage chain.
With --visits, the seeds are evaluated first and each stage is annotated with the
number of ranges that entered it.`,
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

		stages := engine.Inspect()
		overlay := &graph.GraphOverlay{Labels: make(map[string]string)}
		for _, st := range stages {
			if d := engine.Describe(st.ID); d != "" {
				overlay.Labels[st.ID] = firstLine(d)
			}
		}

		if withVisits, _ := cmd.Flags().GetBool("visits"); withVisits {
			values, err := seedValues(cmd, engine)
			if err != nil {
				return err
			}
			if _, err := cli.Solve(cmd.Context(), engine, values, opts.Config.Mode, false, nil); err != nil {
				return err
			}
			overlay.Visits = visits.Counts()
		}

		p := engine.Pipeline()
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(stages, p.Start(), p.Terminal(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("visits", false, "Annotate stages with the ranges that entered them")
	graphCmd.Flags().String("seeds", "", "Seed integers separated by spaces or commas")
}
