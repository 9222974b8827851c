// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mockapi serves the in-memory admin backend for trying adminctl locally.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (development only).
//  3. Seed the in-memory backend.
//  4. Start HTTP server with graceful shutdown.
//
// Point the CLI at it with ADMIN_API_URL=http://localhost:3000/api and log in
// as admin1 / secret.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/eduadmin/internal/admin/admintest"
	"github.com/taibuivan/eduadmin/internal/api"
	"github.com/taibuivan/eduadmin/internal/platform/config"
	"github.com/taibuivan/eduadmin/internal/platform/constants"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	log := rawLog.With(slog.String("app", constants.AppName+"-mockapi"))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")
	must(log, checkEnvironment(cfg), "check environment")

	// ── 3. Backend ────────────────────────────────────────────────────────
	backend := admintest.New(log)
	server := api.NewServer(cfg.MockAddr, log, backend.Handler())

	// ── 4. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// checkEnvironment refuses to serve the seeded fixture accounts outside development.
func checkEnvironment(cfg *config.Config) error {
	if !cfg.IsDevelopment() {
		return fmt.Errorf("mockapi only runs with ENVIRONMENT=development, got %q", cfg.Environment)
	}
	return nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
