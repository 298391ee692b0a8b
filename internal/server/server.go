// Package server exposes GDP series, plots and source-change events over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/gdpplot/internal/dataset"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Default settings.
const (
	DefaultAddr            = ":8765"
	DefaultShutdownTimeout = 5 * time.Second
	debounce               = 100 * time.Millisecond
)

// Config holds configuration for the API server.
type Config struct {
	Dataset       core.DatasetConfig
	CodeFieldName string
	Addr          string
	Watch         bool

	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit float64
	Burst     int

	ShutdownTimeout time.Duration
	Title           string
	Width, Height   int
	Logger          *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	cfg      Config
	builder  *dataset.Builder
	logger   *slog.Logger
	notifier *Notifier
	metrics  *Metrics
	handler  http.Handler
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		cfg:      cfg,
		builder:  dataset.NewBuilder(cfg.Logger),
		logger:   cfg.Logger,
		notifier: NewNotifier(),
		metrics:  NewMetrics(),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
		s.metrics.instrument,
	)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Get("/api/events", s.handleEvents)

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(newRateLimiter(s.cfg.RateLimit, s.cfg.Burst, s.logger).Handler)
		}
		r.Get("/api/series", s.handleSeries)
		r.Get("/api/countries", s.handleCountries)
		r.Get("/api/plot.{sink}", s.handlePlot)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", slog.String("addr", ln.Addr().String()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchSource(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
