package backtest

import (
	"math"
	"time"
)

// Trade is one reconstructed round-trip: a maximal contiguous run of bars
// holding a non-flat position. Trades are derived from the ledger, never
// stored by the simulator itself.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPx    float64   `json:"entry_px"`
	ExitPx     float64   `json:"exit_px"`
	Shares     float64   `json:"shares"`
	PnL        float64   `json:"pnl"`
	Return     float64   `json:"return"`
	Open       bool      `json:"open"`
	ExitReason string    `json:"exit_reason"`
}

const (
	exitReasonSignal  = "signal"
	exitReasonDataEnd = "end_of_data"
)

// ExtractTrades scans the ledger for contiguous non-flat position runs.
// Entry fills at the exec price of the bar opening the run; exit fills at
// the exec price of the bar that returns the position to flat. A position
// flip (long to short or back) closes the current trade and opens a new one
// on the same bar. A run still open at the end of the data is closed at the
// last market price and flagged Open rather than silently settled.
func ExtractTrades(ledger *Ledger) []Trade {
	var trades []Trade
	var current *Trade

	for i, row := range ledger.Rows {
		flat := row.Shares == 0

		switch {
		case current == nil && !flat:
			current = &Trade{
				EntryTime: row.Timestamp,
				EntryPx:   row.ExecPx,
				Shares:    row.Shares,
			}

		case current != nil && flat:
			trades = append(trades, closeTrade(*current, row.Timestamp, row.ExecPx, exitReasonSignal))
			current = nil

		case current != nil && signFlipped(current.Shares, row.Shares):
			trades = append(trades, closeTrade(*current, row.Timestamp, row.ExecPx, exitReasonSignal))
			current = &Trade{
				EntryTime: row.Timestamp,
				EntryPx:   row.ExecPx,
				Shares:    row.Shares,
			}
		}

		if i == len(ledger.Rows)-1 && current != nil {
			// Mark-to-market close for the still-open run.
			lastPrice := row.Holdings / row.Shares
			open := closeTrade(*current, row.Timestamp, lastPrice, exitReasonDataEnd)
			open.Open = true
			trades = append(trades, open)
		}
	}

	return trades
}

func closeTrade(t Trade, exitTime time.Time, exitPx float64, reason string) Trade {
	t.ExitTime = exitTime
	t.ExitPx = exitPx
	t.ExitReason = reason
	t.PnL = (exitPx - t.EntryPx) * t.Shares
	if t.EntryPx != 0 {
		t.Return = (exitPx/t.EntryPx - 1) * sign(t.Shares)
	}
	return t
}

func signFlipped(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// TradeStats is the per-trade performance report.
type TradeStats struct {
	NumTrades    int     `json:"num_trades"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
}

// ComputeTradeStats aggregates realized trade results. An empty trade list
// yields all zeros; wins with no losses yield a +Inf profit factor. Neither
// case is ever a division fault.
func ComputeTradeStats(trades []Trade) TradeStats {
	if len(trades) == 0 {
		return TradeStats{}
	}

	var wins, losses int
	var grossWin, grossLoss float64
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
			grossWin += t.PnL
		} else if t.PnL < 0 {
			losses++
			grossLoss += t.PnL
		}
	}

	stats := TradeStats{
		NumTrades: len(trades),
		WinRate:   float64(wins) / float64(len(trades)),
	}
	if wins > 0 {
		stats.AvgWin = grossWin / float64(wins)
	}
	if losses > 0 {
		stats.AvgLoss = grossLoss / float64(losses)
	}

	switch {
	case grossLoss < 0:
		stats.ProfitFactor = grossWin / -grossLoss
	case grossWin > 0:
		stats.ProfitFactor = math.Inf(1)
	}

	return stats
}
