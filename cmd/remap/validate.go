package main

import (
	"fmt"

	"github.com/aretw0/remap/internal/cli"
	"github.com/aretw0/remap/internal/compiler"
	"github.com/aretw0/remap/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check the pipeline for consistency",
	Long: `Parses every stage, then walks the chain from the start stage and reports malformed
or overlapping rules, missing stages, cycles and unreachable stages.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		loaded, err := cli.OpenLoader(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer loaded.Close()

		report, err := validator.ValidatePipeline(loaded.Loader, compiler.NewParser(), loaded.Start, loaded.Terminal)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "Pipeline is valid: %d stages from '%s' to '%s'\n", len(report.Chain), loaded.Start, loaded.Terminal)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
