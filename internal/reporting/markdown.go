package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a sweep report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sweep Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Season: %s | Combinations: %d\n\n", r.RunID, r.Season, r.Combinations))

	// Dataset
	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| Split | Games |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Train | %d |\n", r.TrainGames))
	sb.WriteString(fmt.Sprintf("| Valid | %d |\n", r.ValidGames))
	sb.WriteString(fmt.Sprintf("| Test | %d |\n", r.TestGames))
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", r.TotalGames))
	sb.WriteString("\n")

	// Selection
	sb.WriteString("## Selected Combination\n\n")
	sb.WriteString(fmt.Sprintf("Entry threshold: %.4f | Exit threshold: %.4f\n\n",
		r.Selection.EntryThreshold, r.Selection.ExitThreshold))
	if r.Degraded {
		sb.WriteString("**Degraded selection:** no validation data was available; " +
			"this is the best training combination and no held-out estimate exists.\n\n")
	}
	sb.WriteString("| Split | Net Profit ($) |\n")
	sb.WriteString("|-------|----------------|\n")
	sb.WriteString(fmt.Sprintf("| Train | %.2f |\n", r.Selection.TrainNetProfit))
	sb.WriteString(fmt.Sprintf("| Valid | %s |\n", renderOptDollars(r.Selection.ValidNetProfit)))
	sb.WriteString(fmt.Sprintf("| Test | %s |\n", renderOptDollars(r.Selection.TestNetProfit)))
	sb.WriteString("\n")
	if r.Selection.TestNumTrades != nil {
		winRate := "n/a"
		if r.Selection.TestWinRate != nil {
			winRate = fmt.Sprintf("%.2f%%", *r.Selection.TestWinRate*100)
		}
		sb.WriteString(fmt.Sprintf("Held-out test: %d trades, win rate %s\n\n",
			*r.Selection.TestNumTrades, winRate))
	}

	// Full table
	sb.WriteString("## All Combinations\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Entry | Exit | Train Trades | Train WinRate | Train P&L | Train MaxDD | Valid P&L | Test P&L |\n")
		sb.WriteString("|-------|------|--------------|---------------|-----------|-------------|-----------|----------|\n")
		for _, row := range r.Rows {
			winRate := "n/a"
			if row.TrainWinRate != nil {
				winRate = fmt.Sprintf("%.4f", *row.TrainWinRate)
			}
			sb.WriteString(fmt.Sprintf("| %.4f | %.4f | %d | %s | %.2f | %.2f | %.2f | %.2f |\n",
				row.EntryThreshold, row.ExitThreshold,
				row.TrainTrades, winRate, row.TrainNetProfit, row.TrainDrawdown,
				row.ValidNetProfit, row.TestNetProfit))
		}
	} else {
		sb.WriteString("No combination results available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func renderOptDollars(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
