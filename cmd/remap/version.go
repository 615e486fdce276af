package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/remap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of remap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "remap version %s\n", strings.TrimSpace(remap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
