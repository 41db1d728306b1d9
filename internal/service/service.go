package service

import (
	"golang-backtest/config"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
)

type Service struct {
	BacktestService  BacktestService
	SweepService     SweepService
	SchedulerService SchedulerService
}

func NewService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) *Service {
	backtestService := NewBacktestService(cfg, log, repo.CandleRepo, repo.BacktestRunRepo)

	return &Service{
		BacktestService:  backtestService,
		SweepService:     NewSweepService(cfg, log, backtestService),
		SchedulerService: NewSchedulerService(cfg, log, backtestService),
	}
}
