package strategy

import (
	"fmt"
	"math"

	"golang-backtest/internal/backtest"
)

// MeanReversion enters long when the rolling z-score drops to or below the
// negative entry threshold and exits once the score reverts inside the exit
// band around zero. Long/flat only.
type MeanReversion struct {
	lookback int
	entry    float64
	exit     float64
}

func NewMeanReversion(lookback int, entry, exit float64) (*MeanReversion, error) {
	if lookback < 2 {
		return nil, fmt.Errorf("lookback must be at least 2, got %d", lookback)
	}
	if entry <= 0 {
		return nil, fmt.Errorf("entry threshold must be positive, got %f", entry)
	}
	if exit < 0 || exit >= entry {
		return nil, fmt.Errorf("exit band must be in [0, entry), got exit=%f entry=%f", exit, entry)
	}
	return &MeanReversion{lookback: lookback, entry: entry, exit: exit}, nil
}

func (m *MeanReversion) Name() string {
	return StrategyTypeMeanReversion
}

func (m *MeanReversion) GenerateSignal(prices backtest.Series) (backtest.Series, error) {
	zscores, err := ZScore(prices.Values, m.lookback)
	if err != nil {
		return backtest.Series{}, err
	}

	signal := backtest.Series{
		Timestamps: prices.Timestamps,
		Values:     make([]float64, prices.Len()),
	}

	current := 0.0
	for t, z := range zscores {
		if math.IsNaN(z) {
			signal.Values[t] = 0
			continue
		}
		if current == 0 && z <= -m.entry {
			current = 1
		} else if current == 1 && math.Abs(z) <= m.exit {
			current = 0
		}
		signal.Values[t] = current
	}

	return signal, nil
}
