package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.opentelemetry.io/otel/trace"

	"northgate/sentinel/pkg/audit"
	"northgate/sentinel/pkg/config"
	"northgate/sentinel/pkg/server/handlers"
	"northgate/sentinel/pkg/server/middleware"
	"northgate/sentinel/pkg/telemetry/health"
)

// Dependencies carries the services the API exposes. MetricsHandler and
// AuditStorage may be nil, in which case the corresponding endpoints are
// not registered. A nil Tracer disables request spans.
type Dependencies struct {
	Evaluator      handlers.Evaluator
	PostureStore   handlers.PostureStore
	PolicyCatalog  handlers.PolicyCatalog
	AuditStorage   audit.Storage
	HealthChecker  *health.Checker
	MetricsHandler http.Handler
	MetricsPath    string
	Tracer         trace.Tracer
	Logger         *slog.Logger
}

// Server is the HTTP API server for the compliance service.
type Server struct {
	config       *config.ServerConfig
	deps         Dependencies
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.ServerConfig, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       cfg,
		deps:         deps,
		logger:       logger.With("component", "server"),
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown. Shutdown is
// triggered by context cancellation, SIGINT/SIGTERM, or a Stop call.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Stop requests an asynchronous shutdown of a running server.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, allowing in-flight requests
// to complete within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("api server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/postures",
		handlers.NewPostureHandler(s.deps.PostureStore, s.deps.Evaluator, s.deps.Logger))
	mux.Handle("GET /v1/devices/{id}/compliance",
		handlers.NewComplianceHandler(s.deps.PostureStore, s.deps.Evaluator, s.deps.Logger))
	mux.Handle("GET /v1/policies",
		handlers.NewPoliciesHandler(s.deps.PolicyCatalog))

	if s.deps.AuditStorage != nil {
		mux.Handle("GET /v1/devices/{id}/audit",
			handlers.NewAuditHandler(s.deps.AuditStorage, s.deps.Logger))
	}

	checker := s.deps.HealthChecker
	if checker == nil {
		checker = health.New(0)
	}
	mux.HandleFunc("GET /health", checker.LivenessHandler())
	mux.HandleFunc("GET /ready", checker.ReadinessHandler())

	if s.deps.MetricsHandler != nil {
		path := s.deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, s.deps.MetricsHandler)
	}

	var handler http.Handler = mux
	if s.deps.Tracer != nil {
		handler = middleware.Tracing(s.deps.Tracer)(handler)
	}
	handler = middleware.Logging(s.deps.Logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.deps.Logger)(handler)

	return handler
}
