// Package main provides the entry point for the reuselens CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reuselens/reuselens/cmd/reuselens/commands"
	"github.com/reuselens/reuselens/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reuselens",
		Short: "Reuselens - cross-platform reuse analysis for React component sources",
		Long: `Reuselens statically analyzes React and React Native component sources,
categorizes every statement as web-specific, native-specific, or shared,
and reports the share of code that survives a cross-platform migration.

Commands:
  scan        Analyze a source tree and report reusability
  baseline    Persist or check a reusability baseline for CI gating
  signatures  Inspect or validate platform signature registries
  mcp         Serve the analyzer over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewBaselineCommand())
	rootCmd.AddCommand(commands.NewSignaturesCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
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
			fmt.Fprintf(os.Stdout, "reuselens %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
