package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/backtest"
)

func priceSeries(t *testing.T, values []float64) backtest.Series {
	t.Helper()
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, 0, i)
	}
	s, err := backtest.NewSeries(timestamps, values)
	require.NoError(t, err)
	return s
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		params   Params
		wantErr  bool
	}{
		{
			name:     "sma crossover",
			strategy: StrategyTypeSMACrossover,
			params:   Params{Fast: 10, Slow: 30},
		},
		{
			name:     "mean reversion",
			strategy: StrategyTypeMeanReversion,
			params:   Params{Lookback: 20, Entry: 2.0, Exit: 0.5},
		},
		{
			name:     "unknown strategy",
			strategy: "momentum",
			wantErr:  true,
		},
		{
			name:     "invalid sma windows",
			strategy: StrategyTypeSMACrossover,
			params:   Params{Fast: 30, Slow: 10},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strat, err := New(tt.strategy, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, strat.Name())
		})
	}
}

func TestSMACrossoverSignal(t *testing.T) {
	strat, err := NewSMACrossover(2, 3)
	require.NoError(t, err)

	// Downtrend into a recovery: the fast average crosses above the slow
	// one at bar 5.
	prices := priceSeries(t, []float64{10, 9, 8, 7, 8, 9, 10, 11})
	signal, err := strat.GenerateSignal(prices)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1, 1, 1}, signal.Values)
	assert.Equal(t, prices.Timestamps, signal.Timestamps)
}

func TestSMACrossoverExitsOnCrossBelow(t *testing.T) {
	strat, err := NewSMACrossover(2, 3)
	require.NoError(t, err)

	prices := priceSeries(t, []float64{10, 9, 8, 7, 8, 9, 10, 9, 8, 7})
	signal, err := strat.GenerateSignal(prices)
	require.NoError(t, err)

	// Long after the recovery, flat again once the trend rolls over.
	assert.Equal(t, 1.0, signal.Values[6])
	assert.Equal(t, 0.0, signal.Values[len(signal.Values)-1])
}

func TestMeanReversionSignal(t *testing.T) {
	strat, err := NewMeanReversion(3, 1.0, 0.75)
	require.NoError(t, err)

	prices := priceSeries(t, []float64{10, 10, 10, 5, 10})
	signal, err := strat.GenerateSignal(prices)
	require.NoError(t, err)

	// Enters on the crash bar, exits once the z-score reverts into the band.
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, signal.Values)
}

func TestMeanReversionValidation(t *testing.T) {
	tests := []struct {
		name     string
		lookback int
		entry    float64
		exit     float64
	}{
		{name: "lookback too short", lookback: 1, entry: 2, exit: 0.5},
		{name: "non-positive entry", lookback: 20, entry: 0, exit: 0},
		{name: "exit above entry", lookback: 20, entry: 1, exit: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMeanReversion(tt.lookback, tt.entry, tt.exit)
			assert.Error(t, err)
		})
	}
}
