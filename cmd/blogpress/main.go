// Package main is the entry point for the blogpress content server.
// It loads configuration, opens the configured storage backend, starts
// the publish scheduler, and serves the HTTP API with graceful shutdown
// support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogpress/internal/config"
	"blogpress/internal/handlers"
	"blogpress/internal/router"
	"blogpress/internal/scheduler"
	"blogpress/internal/store"
)

func main() {
	// Structured logger for everything below.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
	)

	// Open the storage backend named by STORAGE_BACKEND. The postgres
	// backend runs its migrations and seeds an empty database here.
	st, err := store.New(cfg)
	if err != nil {
		slog.Error("failed to open storage backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close storage backend", "error", err)
		}
	}()

	// Start the publish scheduler; it promotes due scheduled posts in the
	// background until shutdown.
	sched := scheduler.New(st, cfg.PublishInterval)
	sched.Start()
	defer sched.Stop()

	// Create handler groups and wire up the router.
	publicHandlers := handlers.NewPublic(st)
	adminHandlers := handlers.NewAdmin(st)
	r := router.New(publicHandlers, adminHandlers, cfg.AdminToken)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
