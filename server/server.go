// Package server exposes the spoofing analysis engine over HTTP: a
// single POST /analyze endpoint next to the usual operational surfaces
// (healthz, Prometheus metrics).
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synqronlabs/mockingbird"
)

// Config contains configuration options for the HTTP server.
type Config struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// Analyzer runs the analyses. Defaults to an analyzer with its own
	// defaults, sharing Logger.
	Analyzer *mockingbird.Analyzer

	// Logger receives request and error logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry collects the server's metrics. Defaults to a fresh
	// registry carrying the Go runtime and process collectors.
	Registry *prometheus.Registry

	// MaxBodyBytes caps the request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ReadTimeout bounds reading a request. Defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response, analysis included.
	// Defaults to 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive connections. Defaults to 60 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Defaults to 30 seconds.
	ShutdownTimeout time.Duration
}

// Server serves sender-spoofing analyses over HTTP.
type Server struct {
	config   Config
	analyzer *mockingbird.Analyzer
	logger   *slog.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	router   chi.Router
	httpSrv  *http.Server
}

// New creates an HTTP server, filling unset config fields with defaults.
func New(config Config) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Analyzer == nil {
		config.Analyzer = mockingbird.New(mockingbird.Config{Logger: config.Logger})
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
		config.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 1 << 20
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 30 * time.Second
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 60 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	s := &Server{
		config:   config,
		analyzer: config.Analyzer,
		logger:   config.Logger,
		metrics:  NewMetrics(config.Registry),
		registry: config.Registry,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(RequestMetrics(s.metrics))
	r.Use(Recovery(s.logger))

	r.Post("/analyze", s.handleAnalyze)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router = r
	s.httpSrv = &http.Server{
		Addr:         config.Addr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Handler returns the server's HTTP handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Config returns the effective configuration, defaults applied.
func (s *Server) Config() Config {
	return s.config
}

// ListenAndServe starts the HTTP server on the configured address. It
// blocks until the server stops and returns http.ErrServerClosed after
// a clean Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server started", slog.String("addr", s.config.Addr))
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpSrv.Shutdown(ctx)
}
