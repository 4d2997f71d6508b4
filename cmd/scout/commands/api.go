package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutlab/scout/internal/api"
	"github.com/scoutlab/scout/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the HTTP API server.

Endpoints:
  GET  /health                  - Health check
  POST /api/scan                - Run a universe scan
  GET  /api/opportunities       - Latest cached scan result
  GET  /api/analyze/{ticker}    - Full pipeline for one ticker
  POST /api/consensus           - Aggregate caller-supplied opinions
  POST /api/committee/debate    - Run a sizing debate
  GET  /api/committee/stats     - Posture win/debate counters
  GET  /api/committee/history   - Recent committee decisions
  GET  /ws/scan                 - Scan with live progress (websocket)

Example:
  go run ./cmd/scout api
  go run ./cmd/scout api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.config.Port = apiPort
	}

	scanHandler := handlers.NewScanHandler(d.scans, d.logger)
	analyzeHandler := handlers.NewAnalyzeHandler(d.provider, d.engine, d.panel, d.aggregator, d.committee, d.logger)
	committeeHandler := handlers.NewCommitteeHandler(d.committee, d.history, d.logger)
	scanStream := api.NewScanStream(d.scans, d.logger)

	router := api.NewRouter(scanHandler, analyzeHandler, committeeHandler, scanStream, d.logger)
	server := api.New(d.config, d.logger, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		d.logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
