package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/telecom-kpi/internal/api"
	"github.com/wonny/telecom-kpi/internal/api/handlers"
	"github.com/wonny/telecom-kpi/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                                  - Health check
  GET  /api/kpi/summary                         - KPI definitions and rates
  GET  /api/kpi/internet                        - KPI 1
  GET  /api/kpi/internet/provinces/{province}   - One province's evolution
  GET  /api/kpi/fiber                           - KPI 2
  GET  /api/kpi/mobile                          - KPI 3
  GET  /api/kpi/{kpi}/chart.png                 - KPI chart
  GET  /api/kpi/export.xlsx                     - Excel workbook
  POST /api/data/ingest                         - ENACOM ingest (postgres)
  GET  /api/data/runs                           - Ingest history (postgres)

Example:
  go run ./cmd/kpi api
  go run ./cmd/kpi api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default is PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Telecom KPI API Server ===")

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port":   a.cfg.Port,
		"env":    a.cfg.Env,
		"source": a.source.Backend.Name(),
	}).Info("Initializing API server")

	// ingestion only writes to postgres from the API
	var dataHandler *handlers.DataHandler
	if a.source.DB != nil {
		loader, runs := newLoader(a, "")
		dataHandler = handlers.NewDataHandler(a.source.Source, loader, runs, a.log)
	} else {
		dataHandler = handlers.NewDataHandler(a.source.Source, nil, nil, a.log)
	}
	kpiHandler := handlers.NewKPIHandler(a.service, a.log)

	routerCfg := api.RouterConfig{
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
		TrustProxy:         a.cfg.TrustProxy,
	}
	if a.redis.Enabled() {
		routerCfg.Limiter = redis.NewRateLimiter(a.redis, "telecom")
	}
	router := api.NewRouter(kpiHandler, dataHandler, routerCfg, a.log)

	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
