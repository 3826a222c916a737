package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hoops-edge-lab/internal/domain"
)

// Generator turns finished run states into reports.
type Generator struct {
	now func() time.Time // injectable clock for deterministic output
}

func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Build assembles a report from a completed run. It never queries
// storage: everything it needs is already on the state.
func (g *Generator) Build(state *domain.RunState) *Report {
	r := &Report{
		GeneratedAt:  g.now(),
		RunID:        state.RunID,
		Season:       state.Config.Season,
		Combinations: len(state.Results),
	}

	if len(state.Results) > 0 {
		// Split sizes are identical across combinations; read them off
		// the first result.
		first := state.Results[0]
		r.TrainGames = first.Train.GamesEvaluated + first.Train.GamesSkipped
		r.ValidGames = first.Valid.GamesEvaluated + first.Valid.GamesSkipped
		r.TestGames = first.Test.GamesEvaluated + first.Test.GamesSkipped
		r.TotalGames = r.TrainGames + r.ValidGames + r.TestGames
	}

	for _, res := range state.Results {
		r.Rows = append(r.Rows, CombinationRow{
			EntryThreshold: res.Combination.EntryThreshold,
			ExitThreshold:  res.Combination.ExitThreshold,
			TrainTrades:    res.Train.NumTrades,
			TrainWinRate:   res.Train.WinRate,
			TrainNetProfit: res.Train.NetProfitDollars(),
			TrainDrawdown:  float64(res.Train.MaxDrawdownCents) / 100,
			ValidTrades:    res.Valid.NumTrades,
			ValidNetProfit: res.Valid.NetProfitDollars(),
			TestTrades:     res.Test.NumTrades,
			TestNetProfit:  res.Test.NetProfitDollars(),
		})
	}

	if sel := state.FinalSelection; sel != nil {
		r.Degraded = sel.Degraded
		r.Selection = SelectionRow{
			EntryThreshold: sel.Combination.EntryThreshold,
			ExitThreshold:  sel.Combination.ExitThreshold,
			TrainNetProfit: sel.TrainMetrics.NetProfitDollars(),
		}
		if sel.ValidMetrics != nil {
			v := sel.ValidMetrics.NetProfitDollars()
			r.Selection.ValidNetProfit = &v
		}
		if sel.TestMetrics != nil {
			v := sel.TestMetrics.NetProfitDollars()
			r.Selection.TestNetProfit = &v
			r.Selection.TestWinRate = sel.TestMetrics.WinRate
			n := sel.TestMetrics.NumTrades
			r.Selection.TestNumTrades = &n
		}
	}

	return r
}

// WriteFiles drops the CSV table and markdown summary next to each
// other under dir, named by run id.
func (g *Generator) WriteFiles(dir string, report *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	csvPath := filepath.Join(dir, report.RunID+".csv")
	if err := os.WriteFile(csvPath, []byte(RenderCSV(report.Rows)), 0o644); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}

	mdPath := filepath.Join(dir, report.RunID+".md")
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}
