// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-metrics",
	Short: "A service that summarizes GitHub repository activity.",
	Long: `repo-metrics pulls commit, pull-request and issue history for a single
GitHub repository and reduces it into activity metrics: commits per author,
PR throughput and cycle time, issue triage and resolution speed, contributor
rankings and a day/hour activity heatmap.

The repository and credential come from the environment:
GITHUB_TOKEN, GITHUB_OWNER and GITHUB_REPO.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
