package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/worldgen/internal/api"
	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/logging"
	"github.com/VoidMesh/worldgen/internal/store"
	"github.com/VoidMesh/worldgen/internal/world"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	setupLogging(cfg.Logging)
	log.Debug("Configuration loaded", "server_port", cfg.Server.Port, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)

	logger := logging.NewDefaultLoggerWrapper()

	// Initialize world store
	log.Debug("Initializing world store", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer st.Close()

	if err := st.Migrate(); err != nil {
		log.Fatal("Failed to run database migrations", "error", err)
	}
	log.Info("Database initialized", "path", cfg.Database.Path)

	w := world.New(world.WithLogger(logger))

	// Generate the initial world so read endpoints have something to serve
	if _, err := w.Generate(context.Background(), cfg.Generation); err != nil {
		log.Error("Initial world generation failed", "error", err, "seed", cfg.Generation.Seed)
	}

	// Initialize API handlers
	handler := api.NewHandler(w, st, cfg.Generation, logger)
	router := api.SetupRoutes(handler, cfg.Server.RequestTimeout)
	log.Debug("API routes configured")

	log.Debug("Creating HTTP server", "port", cfg.Server.Port, "read_timeout", cfg.Server.ReadTimeout, "write_timeout", cfg.Server.WriteTimeout, "idle_timeout", cfg.Server.IdleTimeout)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting VoidMesh worldgen server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
		log.Debug("Server stopped listening")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutting down server...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	} else {
		log.Debug("Server shutdown completed gracefully")
	}

	log.Info("Server exited")
}

func setupLogging(cfg config.LoggingConfig) {
	pretty := cfg.Format == "pretty" || !cfg.Structured
	logger := logging.Configure(os.Stderr, cfg.Level, pretty, "[voidmesh-worldgen] ")
	if cfg.Format == "json" && cfg.Structured {
		logger.SetFormatter(log.JSONFormatter)
	}

	// Package-level log calls in this command go through the same logger
	log.SetDefault(logger)
}
