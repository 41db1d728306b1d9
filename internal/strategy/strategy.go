package strategy

import (
	"fmt"

	"golang-backtest/internal/backtest"
)

const (
	StrategyTypeSMACrossover  = "sma_crossover"
	StrategyTypeMeanReversion = "mean_reversion"
)

// SignalStrategy turns a price series into a raw target-position series.
// The output is unaligned: callers must pass it through AlignNextBar before
// simulating, otherwise the signal acts on the same bar it was computed from.
type SignalStrategy interface {
	Name() string
	GenerateSignal(prices backtest.Series) (backtest.Series, error)
}

// Params carries the union of tunable strategy parameters. Each strategy
// reads the subset it needs.
type Params struct {
	Fast     int     `json:"fast,omitempty"`
	Slow     int     `json:"slow,omitempty"`
	Lookback int     `json:"lookback,omitempty"`
	Entry    float64 `json:"entry,omitempty"`
	Exit     float64 `json:"exit,omitempty"`
}

// New builds a strategy by type name.
func New(name string, params Params) (SignalStrategy, error) {
	switch name {
	case StrategyTypeSMACrossover:
		return NewSMACrossover(params.Fast, params.Slow)
	case StrategyTypeMeanReversion:
		return NewMeanReversion(params.Lookback, params.Entry, params.Exit)
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}
