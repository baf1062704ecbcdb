package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drugsafe/drugscan-api/config"
	"github.com/drugsafe/drugscan-api/data"
	"github.com/drugsafe/drugscan-api/fallback"
	"github.com/drugsafe/drugscan-api/health"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/reports"
	"github.com/drugsafe/drugscan-api/resolver"
	"github.com/drugsafe/drugscan-api/scan"
	"github.com/drugsafe/drugscan-api/scheduler"
	"github.com/drugsafe/drugscan-api/server"
	"github.com/drugsafe/drugscan-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Best effort: a missing .env just means the environment is already set
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir)

	// Data container starts empty; a failed initial load leaves the service
	// in fallback-only mode rather than killing the process
	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	datasetParser := scan.NewDatasetParser(cfg.DatasetURL, cfg.DatasetPath)
	sched := scheduler.NewScheduler(dataContainer, datasetParser)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	reportStore, err := reports.NewStore(cfg.ReportsDBPath)
	if err != nil {
		logging.Error("Failed to open report log", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := reportStore.Close(); err != nil {
			logging.Warn("Failed to close report log", "error", err)
		}
	}()

	fallbackClient := fallback.NewClient(cfg.FallbackBaseURL, cfg.FallbackTimeout)
	res := resolver.New(dataContainer, fallbackClient)
	healthChecker := health.NewHealthChecker(dataContainer, reportStore)
	validator := validation.NewDataValidator()

	srv := server.NewServer(cfg, dataContainer, res, reportStore, healthChecker, validator)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
