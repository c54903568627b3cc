package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/handlers"
	"github.com/soltixdb/trendlens/internal/history"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/metrics"
	"github.com/soltixdb/trendlens/internal/queue"
	"github.com/soltixdb/trendlens/internal/router"
	"github.com/soltixdb/trendlens/internal/services"
	"github.com/soltixdb/trendlens/internal/sink"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("trendlens server starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create directories", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Output sink for rendered reports and predictions
	out, err := sink.New(ctx, cfg.Output)
	if err != nil {
		logger.Fatal("Failed to create output sink", "error", err, "sink", cfg.Output.Sink)
	}
	defer func() { _ = out.Close() }()
	logger.Info("Output sink ready", "sink", cfg.Output.Sink, "compression", cfg.Output.Compression)

	m := metrics.New()
	deps := services.AnalysisDeps{Sink: out, Metrics: m}
	hdeps := handlers.Deps{}

	// Run history (optional)
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Fatal("Failed to open history store", "error", err, "path", cfg.History.Path)
		}
		defer func() { _ = store.Close() }()
		deps.History = store
		hdeps.History = store
		logger.Info("History store opened", "path", cfg.History.Path)
	}

	// Analysis events (optional)
	publisher, err := queue.NewPublisher(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err, "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	}
	if publisher != nil {
		events := queue.NewEventPublisher(publisher, cfg.Queue.SubjectPrefix)
		defer func() { _ = events.Close() }()
		deps.Events = events
		logger.Info("Queue connection established", "type", cfg.Queue.Type, "subject", events.CompletedSubject())
	}

	analysis, err := services.NewAnalysisService(logger, cfg.Analysis, deps)
	if err != nil {
		logger.Fatal("Failed to create analysis service", "error", err)
	}
	hdeps.Analysis = analysis
	hdeps.Predictions = services.NewPredictionService(logger, cfg.Providers, cfg.Analysis.MaxRecords, out, m)

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}
	logger.Info("Provider credentials", "status", cfg.CredentialStatus())

	handlers.Version = Version
	app := router.New(logger, cfg, hdeps, m)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
