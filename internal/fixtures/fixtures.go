// Package fixtures generates synthetic seasons for demos and tests. The
// generator is fully deterministic for a given seed, so a sweep over a
// fixture season is reproducible end to end.
package fixtures

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/observability"
	"hoops-edge-lab/internal/storage"
)

// SeasonConfig shapes a synthetic season.
type SeasonConfig struct {
	Season   string
	NumGames int
	Seed     int64

	// PointsPerGame is the aligned sample count per game; zero means
	// a regulation-length default at 10s sampling.
	PointsPerGame int

	// Metrics, when set, counts loaded games and points.
	Metrics *observability.Metrics
}

// teams is a small rotation pool; names only matter for readability.
var teams = []string{"BOS", "LAL", "GSW", "MIL", "DEN", "PHI", "MIA", "NYK", "DAL", "PHX"}

// GenerateSeason builds games and their aligned series. Each game is a
// random walk of the model probability with the market price tracking
// it noisily, so model-market divergence episodes occur naturally and
// grid thresholds have something to trade against.
func GenerateSeason(cfg SeasonConfig) ([]*domain.Game, map[string][]*domain.AlignedPoint) {
	if cfg.PointsPerGame <= 0 {
		cfg.PointsPerGame = 170 // ~28 minutes at 10s sampling
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	games := make([]*domain.Game, 0, cfg.NumGames)
	series := make(map[string][]*domain.AlignedPoint, cfg.NumGames)

	for i := 0; i < cfg.NumGames; i++ {
		home := teams[rng.Intn(len(teams))]
		away := teams[rng.Intn(len(teams))]
		for away == home {
			away = teams[rng.Intn(len(teams))]
		}

		tipoff := int64(1730000000000) + int64(i)*86_400_000/4
		game := &domain.Game{
			GameID:   fmt.Sprintf("%s-%04d", cfg.Season, i),
			Season:   cfg.Season,
			HomeTeam: home,
			AwayTeam: away,
			TipoffMs: tipoff,
			FinalMs:  tipoff + int64(cfg.PointsPerGame)*10_000,
		}
		games = append(games, game)
		series[game.GameID] = generateSeries(rng, game, cfg.PointsPerGame)
	}

	return games, series
}

func generateSeries(rng *rand.Rand, game *domain.Game, n int) []*domain.AlignedPoint {
	points := make([]*domain.AlignedPoint, 0, n)

	prob := 0.35 + 0.3*rng.Float64()
	market := prob * 100

	for i := 0; i < n; i++ {
		prob += rng.NormFloat64() * 0.015
		prob = clamp(prob, 0.02, 0.98)

		// The market lags the model and carries its own noise; the gap
		// between the two is what the strategy trades.
		market += (prob*100-market)*0.25 + rng.NormFloat64()*1.5
		market = clamp(market, 1, 99)

		points = append(points, &domain.AlignedPoint{
			GameID:       game.GameID,
			TimestampMs:  game.TipoffMs + int64(i)*10_000,
			ModelProb:    prob,
			MarketCents:  math.Round(market),
			QuotePresent: rng.Float64() > 0.03, // occasional missing quote
		})
	}
	return points
}

// Load generates a season and writes it through the stores.
func Load(ctx context.Context, games storage.GameStore, points storage.AlignedPointStore, cfg SeasonConfig) error {
	gameList, series := GenerateSeason(cfg)

	for _, game := range gameList {
		if err := games.Insert(ctx, game); err != nil {
			return fmt.Errorf("insert fixture game %s: %w", game.GameID, err)
		}
		if err := points.InsertBulk(ctx, series[game.GameID]); err != nil {
			return fmt.Errorf("insert fixture series %s: %w", game.GameID, err)
		}
		if cfg.Metrics != nil {
			cfg.Metrics.GamesIngested.Inc()
			cfg.Metrics.AlignedPointsIngested.Add(float64(len(series[game.GameID])))
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
