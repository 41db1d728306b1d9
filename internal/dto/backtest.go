package dto

import (
	"time"

	"golang-backtest/internal/backtest"
	"golang-backtest/internal/strategy"
)

// BacktestRequest defines the parameters for a single backtest run. Friction
// and sizing fields are optional; config defaults apply when omitted.
type BacktestRequest struct {
	Symbol   string          `json:"symbol" validate:"required"`
	Range    string          `json:"range"`
	Interval string          `json:"interval"`
	Strategy string          `json:"strategy" validate:"required"`
	Params   strategy.Params `json:"params"`

	InitialCash   *float64 `json:"initial_cash,omitempty" validate:"omitempty,gt=0"`
	FeeBps        *float64 `json:"fee_bps,omitempty" validate:"omitempty,gte=0"`
	SlippageBps   *float64 `json:"slippage_bps,omitempty" validate:"omitempty,gte=0"`
	ShareMode     *string  `json:"share_mode,omitempty" validate:"omitempty,oneof=integer fractional"`
	IncludeLedger bool     `json:"include_ledger,omitempty"`
}

// BacktestResult is the full outcome of one simulated run.
type BacktestResult struct {
	Symbol      string              `json:"symbol"`
	Strategy    string              `json:"strategy"`
	Params      strategy.Params     `json:"params"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	InitialCash float64             `json:"initial_cash"`
	FinalEquity float64             `json:"final_equity"`
	TotalFees   float64             `json:"total_fees"`
	Summary     backtest.Summary    `json:"summary"`
	TradeStats  backtest.TradeStats `json:"trade_stats"`
	Trades      []backtest.Trade    `json:"trades"`
	Ledger      []backtest.Row      `json:"ledger,omitempty"`
}

// SweepRequest runs one backtest per parameter combination and reports the
// best run by the objective metric.
type SweepRequest struct {
	Symbol    string            `json:"symbol" validate:"required"`
	Range     string            `json:"range"`
	Interval  string            `json:"interval"`
	Strategy  string            `json:"strategy" validate:"required"`
	Grid      []strategy.Params `json:"grid" validate:"required,min=1,dive"`
	Objective string            `json:"objective" validate:"omitempty,oneof=sharpe sortino total_return cagr"`

	InitialCash *float64 `json:"initial_cash,omitempty" validate:"omitempty,gt=0"`
	FeeBps      *float64 `json:"fee_bps,omitempty" validate:"omitempty,gte=0"`
	SlippageBps *float64 `json:"slippage_bps,omitempty" validate:"omitempty,gte=0"`
	ShareMode   *string  `json:"share_mode,omitempty" validate:"omitempty,oneof=integer fractional"`
}

// SweepRunSummary is the condensed per-combination outcome of a sweep.
type SweepRunSummary struct {
	Params      strategy.Params     `json:"params"`
	Objective   float64             `json:"objective"`
	FinalEquity float64             `json:"final_equity"`
	Summary     backtest.Summary    `json:"summary"`
	TradeStats  backtest.TradeStats `json:"trade_stats"`
	Error       string              `json:"error,omitempty"`
}

// SweepResult reports every combination tried plus the winner.
type SweepResult struct {
	Symbol    string            `json:"symbol"`
	Strategy  string            `json:"strategy"`
	Objective string            `json:"objective"`
	Runs      []SweepRunSummary `json:"runs"`
	Best      *BacktestResult   `json:"best,omitempty"`
}
