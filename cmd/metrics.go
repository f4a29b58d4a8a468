// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yshino/repo-metrics/internal/config"
	"github.com/yshino/repo-metrics/internal/gateway"
	"github.com/yshino/repo-metrics/internal/usecase"
	"github.com/yshino/repo-metrics/pkg/logger"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Computes all repository metrics once and outputs them as JSON",
	Long: `Computes commit, pull-request, issue, contributor and heatmap metrics
for the configured repository over the given lookback window, and prints the
combined result in JSON format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		days := cfg.GitHub.LookbackDays
		if cmd.Flags().Changed("days") {
			days, _ = cmd.Flags().GetInt("days")
		}

		// Logs go to stderr and stay out of the JSON on stdout; --verbose
		// raises them to debug.
		level := "warn"
		if verbose, _ := cmd.InheritedFlags().GetBool("verbose"); verbose {
			level = "debug"
		}
		log, err := logger.New(level)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, log)
		if err != nil {
			return fmt.Errorf("create GitHub gateway: %w", err)
		}
		aggregator := usecase.NewAggregator(githubGateway, log)

		results, err := aggregator.AllMetrics(ctx, days)
		if err != nil {
			return fmt.Errorf("aggregate metrics: %w", err)
		}

		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results to JSON: %w", err)
		}

		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.SilenceUsage = true
	metricsCmd.Flags().IntP("days", "d", 30, "Lookback window in days")
}
