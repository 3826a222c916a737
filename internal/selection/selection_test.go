package selection

import (
	"errors"
	"testing"

	"hoops-edge-lab/internal/domain"
)

func result(entry, exit float64, trainTrades int, trainProfit, validProfit int64, validGames int) domain.CombinationResult {
	return domain.CombinationResult{
		Combination: domain.Combination{EntryThreshold: entry, ExitThreshold: exit},
		Train:       domain.SplitMetrics{NumTrades: trainTrades, NetProfitCents: trainProfit, GamesEvaluated: 10},
		Valid:       domain.SplitMetrics{NumTrades: validGames, NetProfitCents: validProfit, GamesEvaluated: validGames},
		Test:        domain.SplitMetrics{GamesEvaluated: 2},
	}
}

func TestSelect_NoResults(t *testing.T) {
	_, err := Select(nil, Policy{TopN: 10, MinTradeCount: 5})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("Expected ErrNoResults, got %v", err)
	}
}

func TestSelect_BestValidationAmongTopTrain(t *testing.T) {
	results := []domain.CombinationResult{
		result(0.02, 0.00, 20, 5000, 100, 3),  // best train
		result(0.03, 0.00, 20, 4000, 900, 3),  // in top 2, best valid
		result(0.04, 0.00, 20, 1000, 9999, 3), // best valid overall, but cut at stage one
	}

	sel, err := Select(results, Policy{TopN: 2, MinTradeCount: 5})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Combination.EntryThreshold != 0.03 {
		t.Errorf("Selected entry %g, want 0.03 (best valid inside top-N)", sel.Combination.EntryThreshold)
	}
	if sel.Degraded {
		t.Error("Selection should not be degraded")
	}
	if sel.ValidMetrics == nil || sel.TestMetrics == nil {
		t.Error("Expected validation and test metrics on a non-degraded selection")
	}
}

func TestSelect_SelectionLaw(t *testing.T) {
	// Whatever wins must have a train profit inside the top-N train profits.
	results := []domain.CombinationResult{
		result(0.02, 0.00, 20, 100, 50, 3),
		result(0.02, 0.01, 20, 900, 10, 3),
		result(0.03, 0.00, 20, 700, 80, 3),
		result(0.03, 0.01, 20, 300, 99, 3),
	}

	topN := 2
	sel, err := Select(results, Policy{TopN: topN, MinTradeCount: 5})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	better := 0
	for _, r := range results {
		if r.Train.NetProfitCents > sel.TrainMetrics.NetProfitCents {
			better++
		}
	}
	if better >= topN {
		t.Errorf("Selected train profit %d is outside the top %d", sel.TrainMetrics.NetProfitCents, topN)
	}
}

func TestSelect_EmptyValidationFallsBack(t *testing.T) {
	// Tiny season: validation split rounded to zero games, so no
	// combination has validation results.
	results := []domain.CombinationResult{
		result(0.02, 0.00, 8, 200, 0, 0),
		result(0.03, 0.00, 8, 700, 0, 0),
	}

	sel, err := Select(results, Policy{TopN: 10, MinTradeCount: 5})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !sel.Degraded {
		t.Error("Expected degraded selection when validation split is empty")
	}
	if sel.Combination.EntryThreshold != 0.03 {
		t.Errorf("Selected entry %g, want 0.03 (best train)", sel.Combination.EntryThreshold)
	}
	if sel.TestMetrics != nil {
		t.Error("Test metrics must be withheld on a degraded fallback")
	}
	if sel.ValidMetrics != nil {
		t.Error("Validation metrics must be withheld on a degraded fallback")
	}
}

func TestSelect_MinTradeCountFilter(t *testing.T) {
	results := []domain.CombinationResult{
		result(0.02, 0.00, 2, 9000, 500, 3), // most profitable but too few trades
		result(0.03, 0.00, 10, 400, 100, 3),
	}

	sel, err := Select(results, Policy{TopN: 10, MinTradeCount: 5})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Combination.EntryThreshold != 0.03 {
		t.Errorf("Selected entry %g, want 0.03 (only candidate above trade floor)", sel.Combination.EntryThreshold)
	}
}

func TestSelect_AllBelowTradeFloor(t *testing.T) {
	// The floor filters everything out; a selection is still owed,
	// flagged degraded.
	results := []domain.CombinationResult{
		result(0.02, 0.00, 1, 100, 50, 3),
		result(0.03, 0.00, 2, 300, 20, 3),
	}

	sel, err := Select(results, Policy{TopN: 10, MinTradeCount: 5})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !sel.Degraded {
		t.Error("Expected degraded selection when every combination is below the trade floor")
	}
	if sel.Combination.EntryThreshold != 0.02 {
		t.Errorf("Selected entry %g, want 0.02 (best valid among relaxed set)", sel.Combination.EntryThreshold)
	}
}

func TestSelect_DeterministicTieBreak(t *testing.T) {
	results := []domain.CombinationResult{
		result(0.04, 0.01, 20, 500, 0, 0),
		result(0.02, 0.00, 20, 500, 0, 0),
	}

	for i := 0; i < 5; i++ {
		sel, err := Select(results, Policy{TopN: 1, MinTradeCount: 5})
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if sel.Combination.EntryThreshold != 0.02 {
			t.Fatalf("Tie broke to entry %g, want 0.02 (lexicographic key)", sel.Combination.EntryThreshold)
		}
	}
}
