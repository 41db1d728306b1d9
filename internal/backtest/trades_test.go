package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTradesRoundTrip(t *testing.T) {
	prices := mustSeries(t, []float64{100, 102, 101, 105})
	raw := mustSeries(t, []float64{1, 1, 0, 0})

	ledger := mustSimulate(t, frictionlessConfig(1000, IntegerShares), prices, AlignNextBar(raw))
	trades := ExtractTrades(ledger)

	require.Len(t, trades, 1)
	trade := trades[0]
	assert.Equal(t, 102.0, trade.EntryPx)
	assert.Equal(t, 105.0, trade.ExitPx)
	assert.Equal(t, 9.0, trade.Shares)
	assert.InDelta(t, 27.0, trade.PnL, 1e-9)
	assert.False(t, trade.Open)
	assert.Equal(t, "signal", trade.ExitReason)
}

func TestExtractTradesOpenAtDataEnd(t *testing.T) {
	prices := mustSeries(t, []float64{100, 102, 101, 105})
	raw := mustSeries(t, []float64{1, 1, 1, 1})

	ledger := mustSimulate(t, frictionlessConfig(1000, IntegerShares), prices, AlignNextBar(raw))
	trades := ExtractTrades(ledger)

	require.Len(t, trades, 1)
	trade := trades[0]
	assert.True(t, trade.Open, "a run still holding at data end must be flagged open")
	assert.Equal(t, "end_of_data", trade.ExitReason)
	assert.Equal(t, 102.0, trade.EntryPx)
	// Closed at the last market price, not an execution price.
	assert.Equal(t, 105.0, trade.ExitPx)
	assert.InDelta(t, 27.0, trade.PnL, 1e-9)
}

func TestExtractTradesMultipleRuns(t *testing.T) {
	prices := mustSeries(t, []float64{100, 102, 101, 105, 103, 108, 110})
	raw := mustSeries(t, []float64{1, 1, 0, 1, 1, 0, 0})

	ledger := mustSimulate(t, frictionlessConfig(1000, IntegerShares), prices, AlignNextBar(raw))
	trades := ExtractTrades(ledger)

	require.Len(t, trades, 2)
	assert.False(t, trades[0].Open)
	assert.False(t, trades[1].Open)
	assert.Equal(t, 102.0, trades[0].EntryPx)
	assert.Equal(t, 105.0, trades[0].ExitPx)
	assert.Equal(t, 103.0, trades[1].EntryPx)
	assert.Equal(t, 110.0, trades[1].ExitPx)
}

func TestExtractTradesEmptyAndFlat(t *testing.T) {
	assert.Empty(t, ExtractTrades(&Ledger{}))

	prices := mustSeries(t, []float64{100, 102, 101})
	flat := mustSeries(t, []float64{0, 0, 0})
	ledger := mustSimulate(t, frictionlessConfig(1000, IntegerShares), prices, AlignNextBar(flat))
	assert.Empty(t, ExtractTrades(ledger))
}

func TestComputeTradeStats(t *testing.T) {
	trades := []Trade{
		{PnL: 10},
		{PnL: -5},
		{PnL: 3},
	}

	stats := ComputeTradeStats(trades)
	assert.Equal(t, 3, stats.NumTrades)
	assert.InDelta(t, 2.0/3.0, stats.WinRate, 1e-12)
	assert.InDelta(t, 2.6, stats.ProfitFactor, 1e-12)
	assert.InDelta(t, 6.5, stats.AvgWin, 1e-12)
	assert.InDelta(t, -5.0, stats.AvgLoss, 1e-12)
}

func TestComputeTradeStatsEmpty(t *testing.T) {
	stats := ComputeTradeStats(nil)
	assert.Equal(t, TradeStats{}, stats, "empty trade list must not fault")
}

func TestComputeTradeStatsNoLosses(t *testing.T) {
	stats := ComputeTradeStats([]Trade{{PnL: 10}, {PnL: 5}})
	assert.True(t, math.IsInf(stats.ProfitFactor, 1), "wins with no losses yield +Inf profit factor")
	assert.Equal(t, 1.0, stats.WinRate)
	assert.Equal(t, 0.0, stats.AvgLoss)
}

func TestComputeTradeStatsAllLosses(t *testing.T) {
	stats := ComputeTradeStats([]Trade{{PnL: -10}, {PnL: -5}})
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Equal(t, 0.0, stats.ProfitFactor)
	assert.InDelta(t, -7.5, stats.AvgLoss, 1e-12)
}
