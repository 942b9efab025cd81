package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/ingest"
	"github.com/burphub/burphub/internal/metrics"
)

// MaxBodyBytes caps the size of a sync upload.
const MaxBodyBytes = 1 << 20

const defaultShutdownTimeout = 10 * time.Second

// SyncService stores uploads from the extension.
type SyncService interface {
	Sync(ctx context.Context, req ingest.Request) (*ingest.Result, error)
}

// StatsService builds the dashboard payload.
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// AddressCounter reports how many client addresses the limiter tracks.
type AddressCounter interface {
	Len() int
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Port            int
	TrustProxy      bool
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	// Limiter, when set, feeds the tracked address gauge after each sync.
	Limiter AddressCounter
}

type Server struct {
	router  *http.ServeMux
	handler http.Handler
	port    int
	sync    SyncService
	stats   StatsService
	limiter AddressCounter
	logger  *slog.Logger
	timeout time.Duration
}

func NewServer(sync SyncService, stats StatsService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	s := &Server{
		router:  http.NewServeMux(),
		port:    opts.Port,
		sync:    sync,
		stats:   stats,
		limiter: opts.Limiter,
		logger:  logger,
		timeout: timeout,
	}
	s.setupRoutes()
	s.handler = s.middleware(s.router, opts.TrustProxy)
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Handle("GET /metrics", metrics.Handler())

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleDashboard)

	// API endpoints
	s.router.HandleFunc("GET /api/stats", s.handleAPIStats)
	s.router.HandleFunc("POST /api/sync", s.handleAPISync)
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
