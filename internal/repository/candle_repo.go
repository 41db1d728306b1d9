package repository

import (
	"context"
	"fmt"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

const keyCandleData = "candle_data:%s:%s:%s"

// CandleRepository serves price series, caching upstream responses in memory
// so parameter sweeps over the same symbol do not hammer the data provider.
type CandleRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
}

type candleRepository struct {
	cfg       *config.Config
	cache     cache.Cache
	yahooRepo YahooFinanceRepository
	log       *logger.Logger
}

func NewCandleRepository(cfg *config.Config, c cache.Cache, yahooRepo YahooFinanceRepository, log *logger.Logger) CandleRepository {
	return &candleRepository{
		cfg:       cfg,
		cache:     c,
		yahooRepo: yahooRepo,
		log:       log,
	}
}

func (r *candleRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	key := fmt.Sprintf(keyCandleData, param.Symbol, param.Range, param.Interval)

	if cached, found := r.cache.Get(key); found {
		if data, ok := cached.(*dto.StockData); ok {
			r.log.DebugContext(ctx, "Candle cache hit", logger.StringField("key", key))
			return data, nil
		}
	}

	data, err := r.yahooRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, data, r.cfg.Cache.DefaultExpiration)
	return data, nil
}
