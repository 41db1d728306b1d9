package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradingDays(n int) []time.Time {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func mustSeries(t *testing.T, values []float64) Series {
	t.Helper()
	s, err := NewSeries(tradingDays(len(values)), values)
	require.NoError(t, err)
	return s
}

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []time.Time
		values     []float64
		wantErr    bool
	}{
		{
			name:       "valid series",
			timestamps: tradingDays(3),
			values:     []float64{1, 2, 3},
		},
		{
			name:       "empty series",
			timestamps: nil,
			values:     nil,
		},
		{
			name:       "length mismatch",
			timestamps: tradingDays(2),
			values:     []float64{1, 2, 3},
			wantErr:    true,
		},
		{
			name:       "duplicate timestamp",
			timestamps: []time.Time{tradingDays(1)[0], tradingDays(1)[0]},
			values:     []float64{1, 2},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeries(tt.timestamps, tt.values)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeries)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlignNextBar(t *testing.T) {
	signal := mustSeries(t, []float64{1, 1, 0, -1, 1})
	aligned := AlignNextBar(signal)

	require.Equal(t, signal.Len(), aligned.Len())
	assert.Equal(t, 0.0, aligned.Values[0], "first bar must be flat")
	for i := 1; i < signal.Len(); i++ {
		assert.Equal(t, signal.Values[i-1], aligned.Values[i], "aligned[%d] must equal signal[%d]", i, i-1)
	}
	assert.Equal(t, signal.Timestamps, aligned.Timestamps, "alignment must preserve the index")
}

func TestAlignNextBarEmpty(t *testing.T) {
	aligned := AlignNextBar(Series{})
	assert.Zero(t, aligned.Len())
}

func TestSameIndex(t *testing.T) {
	a := mustSeries(t, []float64{1, 2, 3})
	b := mustSeries(t, []float64{4, 5, 6})
	assert.True(t, a.SameIndex(b))

	short := mustSeries(t, []float64{1, 2})
	assert.False(t, a.SameIndex(short))

	shifted, err := NewSeries([]time.Time{
		a.Timestamps[0].Add(time.Hour),
		a.Timestamps[1],
		a.Timestamps[2],
	}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.False(t, a.SameIndex(shifted))
}
