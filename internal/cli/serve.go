package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/burphub/burphub/internal/adapters/otel"
	"github.com/burphub/burphub/internal/ingest"
	"github.com/burphub/burphub/internal/ports"
	"github.com/burphub/burphub/internal/ratelimit"
	"github.com/burphub/burphub/internal/stats"
	"github.com/burphub/burphub/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and sync API",
	Long: `Start the HTTP server.

Serves the dashboard page, GET /api/stats and POST /api/sync.

Examples:
  burphub serve              # Start on PORT or 5000
  burphub serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	logger := app.Logger
	if cfg.SyncAPIKey == "" {
		logger.Warn("SYNC_API_KEY is not set: every sync request will be rejected")
	}

	exporter, err := newMetricsExporter(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := exporter.Close(closeCtx); err != nil {
			logger.Warn("failed to flush metrics", "error", err)
		}
	}()

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow, time.Now)
	ingestSvc := ingest.NewService(app.Repos.Sync, limiter, cfg.SyncAPIKey, exporter, logger)
	statsSvc := stats.NewService(app.Repos.DailyStats, app.Repos.Streak, app.Repos.Profile, time.Now)

	server := web.NewServer(ingestSvc, statsSvc, web.Options{
		Port:            cfg.Port,
		TrustProxy:      cfg.TrustProxy,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
		Limiter:         limiter,
	})
	return server.Start(ctx)
}

func newMetricsExporter(ctx context.Context, cfg otel.Config) (ports.MetricsExporter, error) {
	if !cfg.Active() {
		return otel.NewNoOpExporter(), nil
	}
	exporter, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start OTLP exporter: %w", err)
	}
	return exporter, nil
}
