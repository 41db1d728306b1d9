package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmptyEquity(t *testing.T) {
	summary := Summarize(Series{}, 252)
	assert.Equal(t, Summary{}, summary)
}

func TestSummarizeConstantEquity(t *testing.T) {
	equity := mustSeries(t, []float64{1000, 1000, 1000})
	summary := Summarize(equity, 252)

	assert.Equal(t, 0.0, summary.TotalReturn)
	assert.Equal(t, 0.0, summary.Volatility)
	assert.Equal(t, 0.0, summary.Sharpe, "zero variance must resolve to zero, not NaN")
	assert.Equal(t, 0.0, summary.Sortino)
	assert.Equal(t, 0.0, summary.MaxDrawdown)
	assert.Equal(t, 0, summary.MaxDrawdownDuration)
}

func TestTotalReturn(t *testing.T) {
	equity := mustSeries(t, []float64{1000, 1100, 1210})
	assert.InDelta(t, 0.21, totalReturn(equity), 1e-12)
}

func TestCAGR(t *testing.T) {
	// Doubling over one full year of periods is a 100% CAGR.
	equity := mustSeries(t, []float64{100, 200})
	assert.InDelta(t, 1.0, cagr(equity, 1), 1e-12)

	// Doubling over two years compounds to sqrt(2)-1 per year.
	assert.InDelta(t, math.Sqrt2-1, cagr(equity, 0.5), 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	equity := mustSeries(t, []float64{100, 120, 90, 100, 130})
	assert.InDelta(t, 90.0/120.0-1, maxDrawdown(equity), 1e-12)
}

func TestMaxDrawdownDuration(t *testing.T) {
	tests := []struct {
		name   string
		equity []float64
		want   int
	}{
		{name: "monotonic rise", equity: []float64{100, 110, 120}, want: 0},
		{name: "single dip", equity: []float64{100, 120, 90, 100, 130}, want: 2},
		{name: "never recovers", equity: []float64{100, 90, 80, 70}, want: 3},
		{name: "two dips takes longest", equity: []float64{100, 90, 100, 110, 100, 90, 95, 120}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxDrawdownDuration(mustSeries(t, tt.equity)))
		})
	}
}

func TestSharpeAndVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02, 0.0}

	m := mean(returns)
	sd := stdev(returns)
	want := m / sd * math.Sqrt(252)

	assert.InDelta(t, want, sharpe(returns, 252), 1e-12)
	assert.InDelta(t, sd*math.Sqrt(252), annualizedVolatility(returns, 252), 1e-12)
}

func TestSortino(t *testing.T) {
	t.Run("no negative returns resolves to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, sortino([]float64{0.01, 0.02, 0.0}, 252))
	})

	t.Run("penalizes only downside", func(t *testing.T) {
		returns := []float64{0.02, -0.01, 0.03, -0.02}
		downside := []float64{-0.01, -0.02}
		want := mean(returns) / stdev(downside) * math.Sqrt(252)
		assert.InDelta(t, want, sortino(returns, 252), 1e-12)
	})
}

func TestEquityToReturns(t *testing.T) {
	assert.Nil(t, equityToReturns(mustSeries(t, []float64{1000})), "single point has no returns")

	returns := equityToReturns(mustSeries(t, []float64{100, 110, 99}))
	assert.InDelta(t, 0.1, returns[0], 1e-12)
	assert.InDelta(t, -0.1, returns[1], 1e-12)
}
