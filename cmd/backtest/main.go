// Package main replays a single threshold combination over one game or
// a whole season and prints trade-level detail. It is the debugging
// companion to the sweep: same simulator, one combination, full
// visibility into every entry and exit.
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
	"hoops-edge-lab/internal/metrics"
	"hoops-edge-lab/internal/simulator"
	"hoops-edge-lab/internal/storage"
	"hoops-edge-lab/internal/storage/memory"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	season := flag.String("season", "", "Season to replay (required unless --game is set)")
	gameID := flag.String("game", "", "Replay a single game id")
	entry := flag.Float64("entry", 0.05, "Entry threshold")
	exit := flag.Float64("exit", 0.01, "Exit threshold")
	fixtureGames := flag.Int("fixture-games", 0, "Generate a synthetic season with this many games (memory backend)")
	fixtureSeed := flag.Int64("fixture-seed", 7, "Seed for the synthetic season")
	outputJSON := flag.Bool("json", false, "Output trades as JSON")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	games, points, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}
	defer cleanup()

	if *fixtureGames > 0 {
		if *season == "" {
			*season = "fixture"
		}
		err := fixtures.Load(ctx, games, points, fixtures.SeasonConfig{
			Season:   *season,
			NumGames: *fixtureGames,
			Seed:     *fixtureSeed,
		})
		if err != nil {
			logger.Fatal("fixture load failed", zap.Error(err))
		}
	}

	gameIDs, err := resolveGames(ctx, games, *season, *gameID)
	if err != nil {
		logger.Fatal("game lookup failed", zap.Error(err))
	}
	if len(gameIDs) == 0 {
		logger.Fatal("no games to replay", zap.String("season", *season))
	}

	combo := domain.Combination{EntryThreshold: *entry, ExitThreshold: *exit}
	simCfg := simulator.FromSweep(cfg.Sweep, combo)

	var allTrades []*domain.Trade
	evaluated, skipped := 0, 0
	for _, id := range gameIDs {
		series, err := points.GetByGameID(ctx, id)
		if err != nil {
			logger.Warn("skipping game", zap.String("game_id", id), zap.Error(err))
			skipped++
			continue
		}
		allTrades = append(allTrades, simulator.Simulate(id, series, simCfg)...)
		evaluated++
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(allTrades, "", "  ")
		fmt.Println(string(out))
		return
	}

	printTrades(combo, allTrades)
	summary := metrics.ComputeSplit(allTrades, evaluated, skipped)
	printSummary(&summary)
}

func resolveGames(ctx context.Context, games storage.GameStore, season, gameID string) ([]string, error) {
	if gameID != "" {
		// Confirm the game exists so a typo fails loudly instead of
		// replaying an empty series.
		if _, err := games.GetByID(ctx, gameID); err != nil {
			return nil, fmt.Errorf("game %s: %w", gameID, err)
		}
		return []string{gameID}, nil
	}
	if season == "" {
		return nil, fmt.Errorf("either --game or --season is required")
	}
	return games.ListIDsBySeason(ctx, season)
}

func buildStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.GameStore, storage.AlignedPointStore, func(), error) {
	if cfg.Storage.Backend == "memory" || cfg.Storage.Backend == "" {
		return memory.NewGameStore(), memory.NewAlignedPointStore(), func() {}, nil
	}
	return openDatabaseStores(ctx, cfg, logger)
}

func printTrades(combo domain.Combination, trades []*domain.Trade) {
	fmt.Printf("Combination: entry=%.4f exit=%.4f\n\n", combo.EntryThreshold, combo.ExitThreshold)
	if len(trades) == 0 {
		fmt.Println("No trades.")
		return
	}

	fmt.Printf("%-14s %-12s %12s %12s %10s %10s %10s %s\n",
		"GAME", "SIDE", "ENTRY(ms)", "EXIT(ms)", "ENTRY(c)", "EXIT(c)", "NET($)", "REASON")
	for _, t := range trades {
		fmt.Printf("%-14s %-12s %12d %12d %10.1f %10.1f %10.2f %s\n",
			t.GameID, t.Side,
			t.EntryTimeMs, t.ExitTimeMs,
			t.EntryMarketCents, t.ExitMarketCents,
			float64(t.NetProfitCents)/100, t.ExitReason)
	}
	fmt.Println()
}

func printSummary(m *domain.SplitMetrics) {
	fmt.Printf("Games:      %d evaluated, %d skipped\n", m.GamesEvaluated, m.GamesSkipped)
	fmt.Printf("Trades:     %d (%d wins, %d losses)\n", m.NumTrades, m.Wins, m.Losses)
	if m.WinRate != nil {
		fmt.Printf("Win rate:   %.1f%%\n", *m.WinRate*100)
	}
	fmt.Printf("Net profit: $%.2f\n", m.NetProfitDollars())
	if m.ProfitFactor != nil {
		fmt.Printf("PF:         %.2f\n", *m.ProfitFactor)
	}
	fmt.Printf("Max DD:     $%.2f\n", float64(m.MaxDrawdownCents)/100)
}
