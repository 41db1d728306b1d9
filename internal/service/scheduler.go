package service

import (
	"context"
	"time"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Tracked symbols are refreshed with the standard SMA crossover setup; the
// point of the schedule is keeping run history current, not tuning.
var trackedParams = strategy.Params{Fast: 10, Slow: 30}

// SchedulerService periodically re-runs backtests for the configured tracked
// symbols so that run history stays fresh as new bars arrive.
type SchedulerService interface {
	Start(ctx context.Context)
}

type schedulerService struct {
	cfg             *config.Config
	log             *logger.Logger
	cronParser      cron.Parser
	backtestService BacktestService
	semaphore       chan struct{}
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	backtestService BacktestService,
) SchedulerService {
	return &schedulerService{
		cfg:             cfg,
		log:             log,
		cronParser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		backtestService: backtestService,
		semaphore:       make(chan struct{}, cfg.Scheduler.MaxConcurrency),
	}
}

// Start blocks until the context is cancelled, firing one refresh pass per
// cron tick.
func (s *schedulerService) Start(ctx context.Context) {
	if !s.cfg.Scheduler.Enabled || len(s.cfg.Scheduler.TrackedSymbols) == 0 {
		s.log.Info("Scheduler disabled or no tracked symbols, not starting")
		return
	}

	schedule, err := s.cronParser.Parse(s.cfg.Scheduler.CronSpec)
	if err != nil {
		s.log.Error("Invalid scheduler cron spec",
			logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
			logger.ErrorField(err),
		)
		return
	}

	s.log.Info("Scheduler started",
		logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
		logger.IntField("tracked_symbols", len(s.cfg.Scheduler.TrackedSymbols)),
	)

	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Scheduler stopped")
			return
		case <-timer.C:
			s.runTrackedSymbols(ctx)
		}
	}
}

func (s *schedulerService) runTrackedSymbols(ctx context.Context) {
	for _, symbol := range s.cfg.Scheduler.TrackedSymbols {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}

		s.semaphore <- struct{}{}
		utils.GoSafe(func() {
			defer func() { <-s.semaphore }()

			_, err := s.backtestService.RunBacktest(ctx, dto.BacktestRequest{
				Symbol:   symbol,
				Strategy: strategy.StrategyTypeSMACrossover,
				Params:   trackedParams,
			})
			if err != nil {
				s.log.ErrorContext(ctx, "Scheduled backtest failed",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
			}
		})
	}
}
