package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/config"
	"taskboard/internal/events"
	"taskboard/internal/job"
	"taskboard/internal/metrics"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Taskboard API",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	// Initialize metrics
	m := metrics.NewWithLogger(logger)

	// Initialize board store
	repo, err := repository.NewFileRepository(
		cfg.Storage.DataDir,
		cfg.Storage.DefaultBoard,
		cfg.Storage.BackupRetention,
		repository.DoneColumnByName(cfg.Storage.DoneColumn),
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize board store", zap.Error(err))
	}
	repo = repository.WithMetrics(repo, m)

	// Initialize rate limiter
	limiter := ratelimit.New(ratelimit.Config{
		Window:     cfg.RateLimit.Window(),
		ReadLimit:  cfg.RateLimit.ReadLimit,
		WriteLimit: cfg.RateLimit.WriteLimit,
		MaxClients: cfg.RateLimit.MaxClients,
	})

	// Initialize event hub for websocket subscribers
	hub := events.NewHub(logger)
	go hub.Run()

	boardService := service.NewBoardService(repo, limiter, hub, m, logger)

	// Background jobs: limiter sweep and board census
	scheduler := cron.New()
	sweepEvery := fmt.Sprintf("@every %ds", cfg.RateLimit.SweepInterval)
	if _, err := scheduler.AddJob(sweepEvery, job.NewSweepJob(limiter, logger)); err != nil {
		logger.Fatal("Failed to schedule limiter sweep", zap.Error(err))
	}
	censusJob := job.NewCensusJob(repo, m, logger)
	if _, err := scheduler.AddJob("@every 5m", censusJob); err != nil {
		logger.Fatal("Failed to schedule board census", zap.Error(err))
	}
	censusJob.Run()
	scheduler.Start()

	// Setup router with all dependencies
	r := router.New(&router.Config{
		Service:        boardService,
		Hub:            hub,
		Logger:         logger,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthEnabled:    cfg.Auth.Enabled,
		JWTSecret:      cfg.Auth.JWTSecret,
		Version:        version,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Taskboard API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
