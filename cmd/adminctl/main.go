// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command adminctl is the operator CLI for the education platform's admin API.
//
// # Startup Sequence
//
//  1. Initialize structured logger (stderr; stdout carries command output).
//  2. Load configuration from .env and environment variables.
//  3. Open the session store (file, memory, Redis or PostgreSQL).
//  4. Wire API client, session manager and admin facade.
//  5. Dispatch the subcommand.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/apiclient"
	"github.com/taibuivan/eduadmin/internal/platform/config"
	"github.com/taibuivan/eduadmin/internal/platform/constants"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
	"github.com/taibuivan/eduadmin/internal/platform/migration"
	pgstore "github.com/taibuivan/eduadmin/internal/platform/postgres"
	redisstore "github.com/taibuivan/eduadmin/internal/platform/redis"
	"github.com/taibuivan/eduadmin/internal/session"
)

func main() {
	os.Exit(run())
}

// run wires the application and returns the process exit status.
func run() int {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelWarn)
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Debug("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("api_url", cfg.APIURL),
		slog.String("session_store", cfg.SessionStore),
		slog.String("session_profile", cfg.SessionProfile),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = ctxutil.WithLogger(ctx, log)

	// ── 3. Session Store ──────────────────────────────────────────────────
	startupCtx, startupCancel := context.WithTimeout(ctx, constants.StartupTimeout)
	store, closeStore, err := openStore(startupCtx, cfg, log)
	startupCancel()
	must(log, err, "open session store")
	defer closeStore()

	// ── 4. Domain Wiring ──────────────────────────────────────────────────
	options := []apiclient.Option{
		apiclient.WithLogger(log),
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	}

	var manager *session.Manager
	if cfg.AutoLogout {
		options = append(options, apiclient.WithUnauthorizedHook(func(ctx context.Context) {
			if err := manager.Logout(ctx); err != nil {
				log.Warn("auto_logout_failed", slog.Any("error", err))
				return
			}
			log.Info("session_cleared_after_401")
		}))
	}

	client := apiclient.New(cfg.APIURL, options...)
	manager = session.NewManager(store, client)
	client.SetTokenSource(manager)

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn("invalid_locale", slog.String("locale", cfg.Locale), slog.Any("error", err))
		tag = language.English
	}

	cli := &app{
		manager: manager,
		service: admin.NewService(client),
		out:     os.Stdout,
		in:      os.Stdin,
		prompts: os.Stderr,
		printer: newPrinter(tag),
	}

	// ── 5. Dispatch ───────────────────────────────────────────────────────
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// openStore builds the configured session store and its cleanup function.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStore(), func() {}, nil

	case config.StoreRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if cerr := client.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}
		return session.NewRedisStore(client, cfg.SessionProfile, cfg.SessionTTL), closeClient, nil

	case config.StorePostgres:
		if err := migration.RunUp(cfg.DatabaseURL, log); err != nil {
			return nil, nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgresStore(pool, cfg.SessionProfile), pool.Close, nil

	default:
		path := cfg.SessionPath
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(cfg.SessionProfile); err != nil {
				return nil, nil, err
			}
		}
		log.Debug("session_file", slog.String("path", path))
		return session.NewFileStore(path, cfg.SessionSecret), func() {}, nil
	}
}

// newLogger builds the JSON logger on stderr.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
