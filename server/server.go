// Package server provides HTTP server management and lifecycle handling for
// the drug scan API. It includes server setup, middleware configuration,
// route management, and graceful shutdown capabilities with proper error
// handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/drugsafe/drugscan-api/config"
	"github.com/drugsafe/drugscan-api/handlers"
	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/metrics"
	"github.com/drugsafe/drugscan-api/resolver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	config        *config.Config
	dataStore     interfaces.DataStore
	resolver      *resolver.Resolver
	reportStore   interfaces.ReportStore
	healthChecker interfaces.HealthChecker
	validator     interfaces.DataValidator
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, res *resolver.Resolver,
	reportStore interfaces.ReportStore, healthChecker interfaces.HealthChecker,
	validator interfaces.DataValidator) *Server {

	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		config:        cfg,
		dataStore:     dataStore,
		resolver:      res,
		reportStore:   reportStore,
		healthChecker: healthChecker,
		validator:     validator,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Resolution
	s.router.Get("/resolve/{term}", handlers.ResolvePayload(s.resolver, s.validator))
	s.router.Post("/resolve", handlers.ResolvePayloadPost(s.resolver, s.validator))
	s.router.Get("/dose/{name}/{amountMg}", handlers.EvaluateDose(s.resolver))

	// Dataset
	s.router.Get("/database/{pageNumber}", handlers.ServePagedDrugs(s.dataStore))
	s.router.Get("/database", handlers.ServeAllDrugs(s.dataStore))
	s.router.Get("/drug/{name}", handlers.FindDrug(s.dataStore))

	// Report log
	s.router.Post("/reports", handlers.SubmitReport(s.reportStore, s.resolver, s.validator))
	s.router.Get("/reports", handlers.ListReports(s.reportStore))
	s.router.Delete("/reports", handlers.ClearReports(s.reportStore))

	// Operational
	s.router.Get("/health", handlers.HealthCheck(s.healthChecker))
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}
