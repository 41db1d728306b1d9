package repository

import (
	"context"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/utils"

	"gorm.io/gorm"
)

type BacktestRunRepository interface {
	Create(ctx context.Context, run *model.BacktestRun) error
	Get(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *gorm.DB
}

func NewBacktestRunRepository(db *gorm.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Create(ctx context.Context, run *model.BacktestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *backtestRunRepository) Get(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error) {
	opts := []utils.DBOption{
		utils.WithOrder("created_at DESC"),
	}
	if param.Symbol != "" {
		opts = append(opts, utils.WithWhere("symbol = ?", param.Symbol))
	}
	if param.Strategy != "" {
		opts = append(opts, utils.WithWhere("strategy = ?", param.Strategy))
	}
	if param.Limit > 0 {
		opts = append(opts, utils.WithLimit(param.Limit))
	}

	var runs []model.BacktestRun
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Find(&runs).Error
	return runs, err
}
