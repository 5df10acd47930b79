// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankaccount/internal/config"
	"bankaccount/internal/handlers"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/cache"
	"bankaccount/internal/repositories/memory"
	"bankaccount/internal/routes"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	health := map[string]handlers.HealthChecker{}

	store, closeStore, err := openStore(cfg, logger, health)
	if err != nil {
		return err
	}
	defer closeStore()

	var caches cache.Cache = cache.NoopCache{}
	if cfg.Redis.Host != "" {
		svc := cache.NewCacheService(cache.NewRedisClient(&cfg.Redis), cfg.Redis.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := svc.HealthCheck(ctx)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "addr", cfg.Redis.Addr(), "error", err)
			_ = svc.Close()
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr())
			caches = svc
			health["redis"] = svc
			defer func() {
				if err := svc.Close(); err != nil {
					logger.Warn("failed to close redis connection", "error", err)
				}
			}()
		}
	}

	app := routes.NewApp(cfg)
	routes.SetupRoutes(app, routes.Deps{
		Config: cfg,
		Store:  store,
		Cache:  caches,
		Health: health,
		Logger: logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Server.Port, "env", cfg.Env, "driver", cfg.Database.Driver)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("listener returned after shutdown", "error", err)
	}
	return nil
}

func openStore(cfg *config.Config, logger *slog.Logger, health map[string]handlers.HealthChecker) (repositories.LedgerStore, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		mem := memory.NewStore()
		health["database"] = mem
		logger.Warn("using in-memory ledger store; data is lost on exit")
		return mem.Ledger(), func() {}, nil
	}

	db, err := repositories.OpenPostgres(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	health["database"] = repositories.DBHealth{DB: db}

	closeDB := func() {
		if err := repositories.Close(db); err != nil {
			logger.Warn("failed to close database connection", "error", err)
		}
	}
	return repositories.NewLedgerStore(db), closeDB, nil
}
