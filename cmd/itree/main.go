// Package main provides the entry point for the itree CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ale-mal/interval-tree/cmd/itree/commands"
	"github.com/ale-mal/interval-tree/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "itree",
		Short: "itree - interval set operations backed by augmented red-black trees",
		Long: `itree merges, queries and reports on integer interval sets.

Commands:
  merge     Merge overlapping intervals into a minimal sorted set
  stats     Report interval tree storage statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewMergeCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
