package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang-backtest/config"
	"golang-backtest/internal/backtest"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

const (
	defaultRange    = "1y"
	defaultInterval = "1d"
)

// BacktestService runs the full pipeline: fetch prices, generate the signal,
// align it to the next bar, simulate execution, and summarize performance.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	RunTransient(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	SaveRun(ctx context.Context, result *dto.BacktestResult) error
	GetRuns(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg        *config.Config
	log        *logger.Logger
	candleRepo repository.CandleRepository
	runRepo    repository.BacktestRunRepository
}

// NewBacktestService creates a new instance of backtestService. runRepo may
// be nil; runs are then never persisted.
func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	candleRepo repository.CandleRepository,
	runRepo repository.BacktestRunRepository,
) BacktestService {
	return &backtestService{
		cfg:        cfg,
		log:        log,
		candleRepo: candleRepo,
		runRepo:    runRepo,
	}
}

// RunBacktest runs the simulation and records the outcome in run history.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	result, err := s.RunTransient(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.SaveRun(ctx, result); err != nil {
		// The simulation itself succeeded; history is best-effort.
		s.log.WarnContext(ctx, "Failed to persist backtest run", logger.ErrorField(err))
	}

	return result, nil
}

// RunTransient runs the simulation without touching run history. Parameter
// sweeps use this to avoid writing one row per grid point.
func (s *backtestService) RunTransient(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	if req.Range == "" {
		req.Range = defaultRange
	}
	if req.Interval == "" {
		req.Interval = defaultInterval
	}

	stockData, err := s.candleRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:   req.Symbol,
		Range:    req.Range,
		Interval: req.Interval,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get price data for backtest",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("failed to get price data: %w", err)
	}

	prices, err := closeSeries(stockData.OHLCV)
	if err != nil {
		return nil, err
	}

	strat, err := strategy.New(req.Strategy, req.Params)
	if err != nil {
		return nil, err
	}

	signal, err := strat.GenerateSignal(prices)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signal: %w", err)
	}
	aligned := backtest.AlignNextBar(signal)

	simCfg := s.simulationConfig(req.InitialCash, req.FeeBps, req.SlippageBps, req.ShareMode)
	sim, err := backtest.NewSimulator(simCfg, s.log)
	if err != nil {
		return nil, err
	}

	ledger, err := sim.Simulate(prices, aligned)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	equity := ledger.EquityCurve()
	summary := backtest.Summarize(equity, s.cfg.Backtest.PeriodsPerYear)
	trades := backtest.ExtractTrades(ledger)
	stats := backtest.ComputeTradeStats(trades)

	result := &dto.BacktestResult{
		Symbol:      req.Symbol,
		Strategy:    strat.Name(),
		Params:      req.Params,
		InitialCash: simCfg.InitialCash,
		FinalEquity: equity.Last(),
		TotalFees:   ledger.TotalFees(),
		Summary:     summary,
		TradeStats:  stats,
		Trades:      trades,
	}
	if prices.Len() > 0 {
		result.StartTime = prices.Timestamps[0]
		result.EndTime = prices.Timestamps[prices.Len()-1]
	}
	if req.IncludeLedger {
		result.Ledger = ledger.Rows
	}

	s.log.InfoContext(ctx, "Backtest completed",
		logger.StringField("symbol", req.Symbol),
		logger.StringField("strategy", strat.Name()),
		logger.IntField("bars", ledger.Len()),
		logger.IntField("num_trades", stats.NumTrades),
		logger.Float64Field("final_equity", result.FinalEquity),
	)

	return result, nil
}

// SaveRun records a completed run in history.
func (s *backtestService) SaveRun(ctx context.Context, result *dto.BacktestResult) error {
	if s.runRepo == nil {
		return nil
	}

	params, err := json.Marshal(result.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	stats, err := json.Marshal(result.TradeStats)
	if err != nil {
		return fmt.Errorf("failed to marshal trade stats: %w", err)
	}

	return s.runRepo.Create(ctx, &model.BacktestRun{
		Symbol:      result.Symbol,
		Strategy:    result.Strategy,
		Params:      params,
		Summary:     summary,
		TradeStats:  stats,
		InitialCash: result.InitialCash,
		FinalEquity: result.FinalEquity,
		NumTrades:   result.TradeStats.NumTrades,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
	})
}

// GetRuns lists persisted run history, newest first.
func (s *backtestService) GetRuns(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error) {
	if s.runRepo == nil {
		return nil, nil
	}
	return s.runRepo.Get(ctx, param)
}

func (s *backtestService) simulationConfig(initialCash, feeBps, slippageBps *float64, shareMode *string) backtest.SimulationConfig {
	return backtest.SimulationConfig{
		InitialCash:    utils.ValueOr(initialCash, s.cfg.Backtest.InitialCash),
		FeeBps:         utils.ValueOr(feeBps, s.cfg.Backtest.FeeBps),
		SlippageBps:    utils.ValueOr(slippageBps, s.cfg.Backtest.SlippageBps),
		ShareMode:      backtest.ShareMode(utils.ValueOr(shareMode, s.cfg.Backtest.ShareMode)),
		PeriodsPerYear: s.cfg.Backtest.PeriodsPerYear,
	}
}

// closeSeries converts OHLCV bars to a close-price series, sorting by
// timestamp and dropping duplicate bars (keeping the last seen).
func closeSeries(ohlcv []dto.StockOHLCV) (backtest.Series, error) {
	bars := make([]dto.StockOHLCV, len(ohlcv))
	copy(bars, ohlcv)
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp < bars[j].Timestamp
	})

	timestamps := make([]time.Time, 0, len(bars))
	values := make([]float64, 0, len(bars))
	for i, bar := range bars {
		if i+1 < len(bars) && bars[i+1].Timestamp == bar.Timestamp {
			continue
		}
		timestamps = append(timestamps, time.Unix(bar.Timestamp, 0).UTC())
		values = append(values, bar.Close)
	}

	return backtest.NewSeries(timestamps, values)
}
