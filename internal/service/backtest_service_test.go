package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

type stubCandleRepo struct {
	data *dto.StockData
	err  error
}

func (s *stubCandleRepo) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type stubRunRepo struct {
	created []*model.BacktestRun
	runs    []model.BacktestRun
}

func (s *stubRunRepo) Create(ctx context.Context, run *model.BacktestRun) error {
	s.created = append(s.created, run)
	return nil
}

func (s *stubRunRepo) Get(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error) {
	return s.runs, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Backtest: config.Backtest{
			InitialCash:    1000,
			FeeBps:         0,
			SlippageBps:    0,
			PeriodsPerYear: 252,
			ShareMode:      "integer",
		},
		Sweep: config.Sweep{
			MaxConcurrency: 2,
			Objective:      "sharpe",
		},
	}
}

func stockDataFromCloses(closes []float64) *dto.StockData {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	ohlcv := make([]dto.StockOHLCV, len(closes))
	for i, c := range closes {
		ohlcv[i] = dto.StockOHLCV{
			Timestamp: start.AddDate(0, 0, i).Unix(),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return &dto.StockData{Symbol: "TEST", OHLCV: ohlcv}
}

func TestRunTransient(t *testing.T) {
	candleRepo := &stubCandleRepo{
		data: stockDataFromCloses([]float64{10, 9, 8, 7, 8, 9, 10, 11, 12, 13}),
	}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, nil)

	result, err := svc.RunTransient(context.Background(), dto.BacktestRequest{
		Symbol:   "TEST",
		Strategy: strategy.StrategyTypeSMACrossover,
		Params:   strategy.Params{Fast: 2, Slow: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "TEST", result.Symbol)
	assert.Equal(t, strategy.StrategyTypeSMACrossover, result.Strategy)
	assert.Equal(t, 1000.0, result.InitialCash)
	assert.Greater(t, result.FinalEquity, 0.0)
	assert.Nil(t, result.Ledger, "ledger omitted unless requested")

	// The uptrend produces a still-open long.
	require.NotEmpty(t, result.Trades)
	assert.True(t, result.Trades[len(result.Trades)-1].Open)
}

func TestRunTransientIncludesLedgerOnRequest(t *testing.T) {
	candleRepo := &stubCandleRepo{
		data: stockDataFromCloses([]float64{10, 9, 8, 7, 8, 9, 10, 11}),
	}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, nil)

	result, err := svc.RunTransient(context.Background(), dto.BacktestRequest{
		Symbol:        "TEST",
		Strategy:      strategy.StrategyTypeSMACrossover,
		Params:        strategy.Params{Fast: 2, Slow: 3},
		IncludeLedger: true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Ledger, 8, "one ledger row per bar")
}

func TestRunTransientUnknownStrategy(t *testing.T) {
	candleRepo := &stubCandleRepo{data: stockDataFromCloses([]float64{10, 11, 12})}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, nil)

	_, err := svc.RunTransient(context.Background(), dto.BacktestRequest{
		Symbol:   "TEST",
		Strategy: "momentum",
	})
	assert.Error(t, err)
}

func TestRunTransientDataFetchFailure(t *testing.T) {
	candleRepo := &stubCandleRepo{err: errors.New("upstream down")}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, nil)

	_, err := svc.RunTransient(context.Background(), dto.BacktestRequest{
		Symbol:   "TEST",
		Strategy: strategy.StrategyTypeSMACrossover,
		Params:   strategy.Params{Fast: 2, Slow: 3},
	})
	assert.Error(t, err)
}

func TestRunBacktestPersistsRun(t *testing.T) {
	candleRepo := &stubCandleRepo{
		data: stockDataFromCloses([]float64{10, 9, 8, 7, 8, 9, 10, 11}),
	}
	runRepo := &stubRunRepo{}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, runRepo)

	result, err := svc.RunBacktest(context.Background(), dto.BacktestRequest{
		Symbol:   "TEST",
		Strategy: strategy.StrategyTypeSMACrossover,
		Params:   strategy.Params{Fast: 2, Slow: 3},
	})
	require.NoError(t, err)

	require.Len(t, runRepo.created, 1)
	saved := runRepo.created[0]
	assert.Equal(t, "TEST", saved.Symbol)
	assert.Equal(t, result.FinalEquity, saved.FinalEquity)
	assert.Equal(t, result.TradeStats.NumTrades, saved.NumTrades)
	assert.NotEmpty(t, saved.Summary)
}

func TestGetRunsWithoutRepo(t *testing.T) {
	svc := NewBacktestService(testConfig(), logger.Nop(), &stubCandleRepo{}, nil)
	runs, err := svc.GetRuns(context.Background(), model.GetBacktestRunsParam{})
	assert.NoError(t, err)
	assert.Nil(t, runs)
}

func TestRequestOverridesDefaults(t *testing.T) {
	candleRepo := &stubCandleRepo{
		data: stockDataFromCloses([]float64{10, 9, 8, 7, 8, 9, 10, 11}),
	}
	svc := NewBacktestService(testConfig(), logger.Nop(), candleRepo, nil)

	result, err := svc.RunTransient(context.Background(), dto.BacktestRequest{
		Symbol:      "TEST",
		Strategy:    strategy.StrategyTypeSMACrossover,
		Params:      strategy.Params{Fast: 2, Slow: 3},
		InitialCash: utils.ToPointer(5000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, result.InitialCash)
}
