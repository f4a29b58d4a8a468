// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yshino/repo-metrics/internal/config"
	"github.com/yshino/repo-metrics/internal/gateway"
	transport "github.com/yshino/repo-metrics/internal/transport/http"
	"github.com/yshino/repo-metrics/internal/usecase"
	"github.com/yshino/repo-metrics/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves repository metrics over an HTTP API",
	Long: `Starts an HTTP server exposing the repository metrics under /api/metrics.
Each endpoint accepts an optional "days" query parameter selecting the
lookback window (default 30).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Logging.Level
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

		handler := transport.NewHandler(log, aggregator, cfg.HTTP.RequestTimeout)
		app := transport.NewServer(log, handler, cfg.HTTP.RequestTimeout)

		go func() {
			log.Infow("starting server",
				"addr", cfg.ServerAddr(),
				"repository", fmt.Sprintf("%s/%s", cfg.GitHub.Owner, cfg.GitHub.Repo),
			)
			if err := app.Listen(cfg.ServerAddr()); err != nil {
				log.Errorw("server stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()
		stop()
		log.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)

		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Warnw("server shutdown failed", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.SilenceUsage = true
}
