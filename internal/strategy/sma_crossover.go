package strategy

import (
	"fmt"
	"math"

	"golang-backtest/internal/backtest"
)

// SMACrossover goes long when the fast moving average crosses above the slow
// one and returns to flat when it crosses back below. Bars inside the warmup
// window stay flat.
type SMACrossover struct {
	fast int
	slow int
}

func NewSMACrossover(fast, slow int) (*SMACrossover, error) {
	if fast < 1 || slow < 1 {
		return nil, fmt.Errorf("sma windows must be at least 1, got fast=%d slow=%d", fast, slow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("fast window must be shorter than slow, got fast=%d slow=%d", fast, slow)
	}
	return &SMACrossover{fast: fast, slow: slow}, nil
}

func (s *SMACrossover) Name() string {
	return StrategyTypeSMACrossover
}

func (s *SMACrossover) GenerateSignal(prices backtest.Series) (backtest.Series, error) {
	fastSMA, err := SMA(prices.Values, s.fast)
	if err != nil {
		return backtest.Series{}, err
	}
	slowSMA, err := SMA(prices.Values, s.slow)
	if err != nil {
		return backtest.Series{}, err
	}

	signal := backtest.Series{
		Timestamps: prices.Timestamps,
		Values:     make([]float64, prices.Len()),
	}

	current := 0.0
	for t := 0; t < prices.Len(); t++ {
		// Both averages and their previous values must be out of warmup
		// before a cross can be observed.
		if t < s.slow || hasNaN(fastSMA[t], slowSMA[t], fastSMA[t-1], slowSMA[t-1]) {
			signal.Values[t] = 0
			continue
		}
		crossAbove := fastSMA[t] > slowSMA[t] && fastSMA[t-1] <= slowSMA[t-1]
		crossBelow := fastSMA[t] < slowSMA[t] && fastSMA[t-1] >= slowSMA[t-1]

		if crossAbove {
			current = 1
		} else if crossBelow {
			current = 0
		}
		signal.Values[t] = current
	}

	return signal, nil
}

func hasNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
