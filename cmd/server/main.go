package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"anomaly-platform/internal/config"
	"anomaly-platform/internal/handlers"
	"anomaly-platform/internal/repository"
	"anomaly-platform/internal/services"
	"anomaly-platform/pkg/logging"
	"anomaly-platform/pkg/metrics"
	"anomaly-platform/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("anomaly-api", handlers.APIVersion, logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting anomaly detection API server", logging.Fields{
		"version":            handlers.APIVersion,
		"server_host":        cfg.Server.Host,
		"server_port":        cfg.Server.Port,
		"default_window_len": cfg.Detection.WindowLen,
		"default_stride":     cfg.Detection.Stride,
		"default_threshold":  cfg.Detection.Threshold,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("anomaly_platform")

	// Choose the sample dataset source: a dataset file written by the
	// generator command, or deterministic in-process generation.
	var sampleRepo repository.SampleRepository
	if _, err := os.Stat(cfg.SampleData.Path); err == nil {
		sampleRepo = repository.NewFileSampleRepository(cfg.SampleData.Path, logger)
		logger.Info(ctx, "[STARTUP] Using sample dataset file", logging.Fields{
			"path": cfg.SampleData.Path,
		})
	} else {
		sampleRepo = repository.NewGeneratedSampleRepository(cfg.GeneratorSpec(), logger)
		logger.Info(ctx, "[STARTUP] Sample dataset file not found, generating in process", logging.Fields{
			"path": cfg.SampleData.Path,
			"seed": cfg.SampleData.Seed,
		})
	}

	// Initialize services
	detectionService := services.NewDetectionService(cfg.DetectionDefaults(), logger, metricsCollector)
	sampleService := services.NewSampleDataService(sampleRepo, logger, metricsCollector)

	// Initialize handlers
	detectionHandler := handlers.NewDetectionHandler(detectionService, sampleService, logger, metricsCollector)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	detectionHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Middleware chain (outermost first)
	chain := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS,
	}
	if cfg.RateLimit.Enabled {
		chain = append(chain, middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, []string{"/health", "/metrics"}))
	}
	handler := middleware.Chain(router, chain...)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
