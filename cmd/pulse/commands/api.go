package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/internal/api"
	"github.com/wonny/pulse/internal/api/handlers"
	"github.com/wonny/pulse/internal/scheduler"
	"github.com/wonny/pulse/internal/scheduler/jobs"
	"github.com/wonny/pulse/internal/stream"
	"github.com/wonny/pulse/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST + WebSocket API server.

This command:
- serves ranked market data, news, charts and search
- refreshes the ranked snapshot on REFRESH_SCHEDULE and pushes it to /api/stream
- exposes Prometheus metrics on METRICS_PORT

Endpoints:
  GET  /health                 - Health check
  GET  /api/market             - Ranked assets (symbols, region, assetType)
  GET  /api/market/summary     - Dashboard counters
  GET  /api/asset/{symbol}     - One scored asset
  GET  /api/news/{symbol}      - Analyzed headlines
  GET  /api/chart/{symbol}     - Closing prices (range=1d|5d|1mo|1y)
  GET  /api/search?q=          - Symbol suggestions
  GET  /api/tickers            - Tracked universe
  GET  /api/stream             - WebSocket snapshots

Example:
  go run ./cmd/pulse api
  go run ./cmd/pulse api --port 8080 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	noScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default $PORT)")
	apiCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "disable the background refresh")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pulse API Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire infrastructure and the market service
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	// 4. Live stream hub
	hub := stream.NewHub(log, a.metrics)
	go hub.Run(ctx)

	// 5. Scheduler
	sched := scheduler.New(log, a.metrics)
	refresh := jobs.NewRefreshJob(a.service, hub, cfg.Scheduler.RefreshSchedule, log)
	if err := sched.AddJob(refresh); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	if err := sched.AddJob(jobs.NewCacheCleanupJob(a.cache, log)); err != nil {
		return fmt.Errorf("add cache cleanup job: %w", err)
	}
	if cfg.Scheduler.Enabled && !noScheduler {
		sched.Start()
		defer sched.Stop()

		// warm the cache and the stream snapshot before the first tick
		go func() {
			if _, err := sched.RunJob(ctx, refresh.Name()); err != nil {
				log.WithError(err).Warn("Initial refresh failed")
			}
		}()
	}

	// 6. Handlers + router
	healthHandler := handlers.NewHealthHandler(handlers.HealthHandler{
		Cache:          a.cache,
		Breakers:       a.breakers,
		Hub:            hub,
		Scheduler:      sched,
		DB:             a.db,
		UniverseSource: a.universeSource,
	})
	router := api.NewRouter(api.Handlers{
		Market: handlers.NewMarketHandler(a.service, log),
		Health: healthHandler,
		Stream: hub.ServeWS,
	}, log, a.metrics)

	// 7. Servers
	server := api.New(cfg, log, router)
	errCh := make(chan error, 2)
	go func() {
		errCh <- server.Start()
	}()

	var metricsServer *api.MetricsServer
	if cfg.MetricsEnabled {
		metricsServer = api.NewMetricsServer(cfg.MetricsPort, a.metrics.Handler(), log)
		go func() {
			errCh <- metricsServer.Start()
		}()
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	if metricsServer != nil {
		fmt.Printf("   Metrics on http://localhost:%s/metrics\n", cfg.MetricsPort)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// 8. Wait for interrupt signal or a server failure
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			log.WithError(runErr).Error("Server failed")
		}
		stop()
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return runErr
}
