// Package server provides the Pulse HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/pulse/pkg/config"
	"mercator-hq/pulse/pkg/server/handlers"
	"mercator-hq/pulse/pkg/server/middleware"
	"mercator-hq/pulse/pkg/telemetry/health"
	"mercator-hq/pulse/pkg/telemetry/metrics"
	"mercator-hq/pulse/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel"
)

// Options are the collaborators the server routes to.
type Options struct {
	// Registry receives request metrics and is served on the metrics path.
	// Required.
	Registry *metrics.Registry

	// Health serves /ready when set.
	Health *health.Checker

	// Database serves /db when set.
	Database handlers.Greeter

	// Tracer defaults to the global OpenTelemetry tracer provider.
	Tracer tracing.SpanStarter
}

// Server is the Pulse HTTP server.
type Server struct {
	config      *config.ServerConfig
	metricsPath string
	registry    *metrics.Registry
	health      *health.Checker
	database    handlers.Greeter
	tracer      tracing.SpanStarter
	handler     http.Handler

	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server and declares the request metric families.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server configuration is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("metric registry is required")
	}
	if err := middleware.DescribeHTTPMetrics(opts.Registry); err != nil {
		return nil, err
	}

	metricsPath := config.DefaultPrometheusPath
	if metricsCfg != nil && metricsCfg.Path != "" {
		metricsPath = metricsCfg.Path
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("mercator-hq/pulse/server")
	}

	s := &Server{
		config:       cfg,
		metricsPath:  metricsPath,
		registry:     opts.Registry,
		health:       opts.Health,
		database:     opts.Database,
		tracer:       tracer,
		shutdownChan: make(chan struct{}),
	}
	s.handler = s.setupRoutes()
	return s, nil
}

// Start binds the listen address and serves until ctx is cancelled or
// Shutdown is called. A bind failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", ln.Addr().String())

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down and return.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting at most
// ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", handlers.NewRootHandler())
	mux.Handle("GET /fast", middleware.CallLogMiddleware(handlers.NewFastHandler()))
	mux.Handle("GET /slow", handlers.NewSlowHandler(s.config.SlowDelay))
	mux.Handle("GET "+s.metricsPath, s.registry.Handler())

	if s.health != nil {
		mux.Handle("GET /ready", s.health.ReadinessHandler())
	}
	if s.database != nil {
		db := handlers.NewDatabaseHandler(s.database)
		mux.Handle("GET /db", db)
		mux.Handle("POST /db", db)
	}

	// Instrument must wrap the mux directly
	var handler http.Handler = middleware.InstrumentMiddleware(s.registry)(mux)

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.TracingMiddleware(s.tracer)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound address, or nil before Start has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
