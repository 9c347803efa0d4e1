package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ktsuchiya/globalmatch-api/internal/batch"
	"github.com/ktsuchiya/globalmatch-api/internal/completion"
	"github.com/ktsuchiya/globalmatch-api/internal/config"
	"github.com/ktsuchiya/globalmatch-api/internal/db"
	"github.com/ktsuchiya/globalmatch-api/internal/history"
	"github.com/ktsuchiya/globalmatch-api/internal/repository"
	"github.com/ktsuchiya/globalmatch-api/internal/router"
	"github.com/ktsuchiya/globalmatch-api/internal/services"
	"github.com/ktsuchiya/globalmatch-api/internal/share"
	"github.com/ktsuchiya/globalmatch-api/internal/storage"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Embedded datastore is optional: without it sharing is disabled and
	// history stays memory-only.
	var database *sqlx.DB
	var repo *repository.Repository
	if cfg.DatabaseFile != "" {
		database, err = db.Open(cfg.DatabaseFile)
		if err != nil {
			logger.Fatal("Failed to open database", "error", err)
		}
		defer database.Close()

		if err := db.RunMigrations(cfg.DatabaseFile, cfg.MigrationsPath); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		repo = repository.NewRepository(database)
	} else {
		logger.Warn("No database configured, sharing disabled and history is memory-only")
	}

	// Optional S3 archival of uploads
	var objectStore storage.Storage
	if cfg.S3Enabled() {
		objectStore, err = storage.NewS3Storage(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", "error", err)
		}
	}

	// Completion client with bounded retry
	backend := completion.NewOpenAIBackend(cfg.BaseURL, cfg.Model, cfg.MaxTokens, cfg.AttemptTimeout)
	completer := completion.NewClient(backend, logger, completion.WithMaxRetries(cfg.MaxRetries))

	// Session histories, optionally mirrored into the datastore
	var mirror history.Mirror
	if repo != nil {
		mirror = repo
	}
	sessions := history.NewManager(cfg.HistoryLimit, config.AppVersion, mirror, logger)

	// Share links
	var shareStore repository.ShareStore
	if repo != nil {
		shareStore = repo
	}
	shareService := share.NewService(shareStore, cfg.ShareBaseURL, cfg.ShareTTL, logger)

	runner := batch.NewRunner(completer, logger)
	assistantService := services.NewAssistantService(completer, runner, objectStore, cfg, logger)

	handler := router.New(assistantService, sessions, shareService, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch runs block for up to 10 sequential calls
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
