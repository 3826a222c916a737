// Package main runs the sweep service: an HTTP API that starts grid
// sweeps, answers status queries, and streams progress over WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/config"
	"hoops-edge-lab/internal/fixtures"
	"hoops-edge-lab/internal/logging"
	"hoops-edge-lab/internal/observability"
	"hoops-edge-lab/internal/resultcache"
	"hoops-edge-lab/internal/server"
	"hoops-edge-lab/internal/storage"
	"hoops-edge-lab/internal/storage/memory"
	"hoops-edge-lab/internal/sweep"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	fixtureGames := flag.Int("fixture-games", 0, "Generate a synthetic season with this many games (memory backend)")
	fixtureSeed := flag.Int64("fixture-seed", 7, "Seed for the synthetic season")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	games, points, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}
	defer cleanup()

	metrics := observability.NewMetrics("")

	if *fixtureGames > 0 {
		season := cfg.Sweep.Season
		if season == "" {
			season = "fixture"
			cfg.Sweep.Season = season
		}
		err := fixtures.Load(ctx, games, points, fixtures.SeasonConfig{
			Season:   season,
			NumGames: *fixtureGames,
			Seed:     *fixtureSeed,
			Metrics:  metrics,
		})
		if err != nil {
			logger.Fatal("fixture load failed", zap.Error(err))
		}
		logger.Info("loaded synthetic season",
			zap.String("season", season),
			zap.Int("games", *fixtureGames))
	}

	cache := resultcache.New(cfg.Paths.CacheDir, logger)
	runner := sweep.NewRunner(sweep.RunnerOptions{
		Games:     games,
		Points:    points,
		Cache:     cache,
		Metrics:   metrics,
		Logger:    logger,
		ReportDir: cfg.Paths.ReportDir,
	})
	registry := sweep.NewRegistry(sweep.RegistryOptions{
		Runner:  runner,
		Metrics: metrics,
		Logger:  logger,
	})

	srv := server.NewServer(server.ServerOptions{
		Registry: registry,
		Defaults: cfg.Sweep,
		Metrics:  metrics,
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	cache.Flush()
}

// buildStores wires the storage backend named in config.
func buildStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.GameStore, storage.AlignedPointStore, func(), error) {
	switch cfg.Storage.Backend {
	case "memory", "":
		return memory.NewGameStore(), memory.NewAlignedPointStore(), func() {}, nil
	default:
		return openDatabaseStores(ctx, cfg, logger)
	}
}
