package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the per-combination metrics table as a CSV string.
// Nil win rates render as empty cells so downstream tooling can tell
// "no trades" from "0% winners".
func RenderCSV(rows []CombinationRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("entry_threshold,exit_threshold,")
	sb.WriteString("train_trades,train_win_rate,train_net_profit,train_max_drawdown,")
	sb.WriteString("valid_trades,valid_net_profit,")
	sb.WriteString("test_trades,test_net_profit\n")

	// Rows
	for _, r := range rows {
		winRate := ""
		if r.TrainWinRate != nil {
			winRate = fmt.Sprintf("%.6f", *r.TrainWinRate)
		}
		sb.WriteString(fmt.Sprintf("%.4f,%.4f,%d,%s,%.2f,%.2f,%d,%.2f,%d,%.2f\n",
			r.EntryThreshold,
			r.ExitThreshold,
			r.TrainTrades,
			winRate,
			r.TrainNetProfit,
			r.TrainDrawdown,
			r.ValidTrades,
			r.ValidNetProfit,
			r.TestTrades,
			r.TestNetProfit,
		))
	}

	return sb.String()
}
