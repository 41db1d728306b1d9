package repository

import (
	"golang-backtest/config"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	YahooFinanceRepo YahooFinanceRepository
	CandleRepo       CandleRepository
	BacktestRunRepo  BacktestRunRepository
}

// NewRepository wires the data-access layer. db may be nil for workloads
// that do not persist runs (e.g. one-off CLI backtests); in that case
// BacktestRunRepo is nil and callers must skip persistence.
func NewRepository(cfg *config.Config, c cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	yahooRepo := NewYahooFinanceRepository(cfg, log)

	repo := &Repository{
		YahooFinanceRepo: yahooRepo,
		CandleRepo:       NewCandleRepository(cfg, c, yahooRepo, log),
	}
	if db != nil {
		repo.BacktestRunRepo = NewBacktestRunRepository(db)
	}

	return repo, nil
}
