// Package main runs one full grid sweep from the command line and
// prints the selection summary, optionally as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/config"
	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/fixtures"
	"hoops-edge-lab/internal/logging"
	"hoops-edge-lab/internal/progress"
	"hoops-edge-lab/internal/resultcache"
	"hoops-edge-lab/internal/storage"
	"hoops-edge-lab/internal/storage/memory"
	"hoops-edge-lab/internal/sweep"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	season := flag.String("season", "", "Season to sweep (overrides config)")
	workers := flag.Int("workers", 0, "Worker pool size (overrides config)")
	fixtureGames := flag.Int("fixture-games", 0, "Generate a synthetic season with this many games (memory backend)")
	fixtureSeed := flag.Int64("fixture-seed", 7, "Seed for the synthetic season")
	outputJSON := flag.Bool("json", false, "Output the full run state as JSON")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sweepCfg := cfg.Sweep
	if *season != "" {
		sweepCfg.Season = *season
	}
	if *workers > 0 {
		sweepCfg.Workers = *workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	games, points, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}
	defer cleanup()

	if *fixtureGames > 0 {
		if sweepCfg.Season == "" {
			sweepCfg.Season = "fixture"
		}
		err := fixtures.Load(ctx, games, points, fixtures.SeasonConfig{
			Season:   sweepCfg.Season,
			NumGames: *fixtureGames,
			Seed:     *fixtureSeed,
		})
		if err != nil {
			logger.Fatal("fixture load failed", zap.Error(err))
		}
		logger.Info("loaded synthetic season",
			zap.String("season", sweepCfg.Season),
			zap.Int("games", *fixtureGames))
	}

	if sweepCfg.Season == "" {
		logger.Fatal("season is required: set --season, sweep.season in config, or --fixture-games")
	}

	cache := resultcache.New(cfg.Paths.CacheDir, logger)
	runner := sweep.NewRunner(sweep.RunnerOptions{
		Games:     games,
		Points:    points,
		Cache:     cache,
		Logger:    logger,
		ReportDir: cfg.Paths.ReportDir,
	})

	hub := progress.NewHub()
	sub := hub.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(sub)
	}()

	runID := progress.NewRunID()
	state, err := runner.Run(ctx, runID, sweepCfg, hub)
	sub.Close()
	<-done
	cache.Flush()
	if err != nil {
		logger.Fatal("sweep failed", zap.Error(err))
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(state, "", "  ")
		fmt.Println(string(out))
		return
	}
	printSummary(state)
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

func printProgress(sub *progress.Subscription) {
	for snap := range sub.C() {
		if snap.Total == 0 {
			continue
		}
		pct := float64(snap.Current) / float64(snap.Total) * 100
		fmt.Fprintf(os.Stderr, "\r%6.2f%% (%d/%d) %s",
			pct, snap.Current, snap.Total, snap.CurrentCombo)
		if snap.Status != domain.RunStatusRunning {
			fmt.Fprintln(os.Stderr)
			return
		}
	}
	fmt.Fprintln(os.Stderr)
}

func printSummary(state *domain.RunState) {
	fmt.Printf("Run:        %s\n", state.RunID)
	fmt.Printf("Season:     %s\n", state.Config.Season)
	fmt.Printf("Cache key:  %s\n", state.CacheKey)
	fmt.Printf("Results:    %d combinations\n", len(state.Results))

	sel := state.FinalSelection
	if sel == nil {
		fmt.Println("No selection produced.")
		return
	}

	fmt.Printf("\nSelected:   entry=%.4f exit=%.4f", sel.Combination.EntryThreshold, sel.Combination.ExitThreshold)
	if sel.Degraded {
		fmt.Print("  (degraded: no validation data)")
	}
	fmt.Println()
	fmt.Printf("Train:      %d trades, $%.2f net\n", sel.TrainMetrics.NumTrades, sel.TrainMetrics.NetProfitDollars())
	if sel.ValidMetrics != nil {
		fmt.Printf("Valid:      %d trades, $%.2f net\n", sel.ValidMetrics.NumTrades, sel.ValidMetrics.NetProfitDollars())
	}
	if sel.TestMetrics != nil {
		fmt.Printf("Test:       %d trades, $%.2f net", sel.TestMetrics.NumTrades, sel.TestMetrics.NetProfitDollars())
		if sel.TestMetrics.WinRate != nil {
			fmt.Printf(" (win rate %.1f%%)", *sel.TestMetrics.WinRate*100)
		}
		fmt.Println()
	} else {
		fmt.Println("Test:       n/a")
	}
}
