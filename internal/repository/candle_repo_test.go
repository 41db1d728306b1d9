package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

type stubYahooRepo struct {
	calls int
	data  *dto.StockData
}

func (s *stubYahooRepo) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	s.calls++
	return s.data, nil
}

func TestCandleRepositoryCachesUpstream(t *testing.T) {
	cfg := &config.Config{
		Cache: config.Cache{
			DefaultExpiration: time.Minute,
			CleanupInterval:   time.Minute,
		},
	}
	yahoo := &stubYahooRepo{
		data: &dto.StockData{
			Symbol: "TEST",
			OHLCV:  []dto.StockOHLCV{{Timestamp: 1640995200, Close: 100}},
		},
	}
	repo := NewCandleRepository(cfg, cache.NewCache(time.Minute, time.Minute), yahoo, logger.Nop())

	param := dto.GetStockDataParam{Symbol: "TEST", Range: "1y", Interval: "1d"}

	first, err := repo.Get(context.Background(), param)
	require.NoError(t, err)
	second, err := repo.Get(context.Background(), param)
	require.NoError(t, err)

	assert.Equal(t, 1, yahoo.calls, "second lookup served from cache")
	assert.Equal(t, first, second)

	// A different interval is a distinct cache entry.
	_, err = repo.Get(context.Background(), dto.GetStockDataParam{Symbol: "TEST", Range: "1y", Interval: "1wk"})
	require.NoError(t, err)
	assert.Equal(t, 2, yahoo.calls)
}
