package service

import (
	"context"
	"fmt"
	"math"

	"golang-backtest/config"
	"golang-backtest/internal/backtest"
	"golang-backtest/internal/dto"
	"golang-backtest/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// SweepService evaluates a strategy over a parameter grid. Runs are fully
// independent of each other, so they execute on a bounded worker pool.
type SweepService interface {
	RunSweep(ctx context.Context, req dto.SweepRequest) (*dto.SweepResult, error)
}

type sweepService struct {
	cfg             *config.Config
	log             *logger.Logger
	backtestService BacktestService
}

func NewSweepService(cfg *config.Config, log *logger.Logger, backtestService BacktestService) SweepService {
	return &sweepService{
		cfg:             cfg,
		log:             log,
		backtestService: backtestService,
	}
}

func (s *sweepService) RunSweep(ctx context.Context, req dto.SweepRequest) (*dto.SweepResult, error) {
	if len(req.Grid) == 0 {
		return nil, fmt.Errorf("sweep grid is empty")
	}

	objective := req.Objective
	if objective == "" {
		objective = s.cfg.Sweep.Objective
	}

	s.log.InfoContext(ctx, "Starting parameter sweep",
		logger.StringField("symbol", req.Symbol),
		logger.StringField("strategy", req.Strategy),
		logger.IntField("combinations", len(req.Grid)),
		logger.IntField("max_concurrency", s.cfg.Sweep.MaxConcurrency),
	)

	results := make([]*dto.BacktestResult, len(req.Grid))
	runs := make([]dto.SweepRunSummary, len(req.Grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Sweep.MaxConcurrency)

	for i, params := range req.Grid {
		g.Go(func() error {
			result, err := s.backtestService.RunTransient(gctx, dto.BacktestRequest{
				Symbol:      req.Symbol,
				Range:       req.Range,
				Interval:    req.Interval,
				Strategy:    req.Strategy,
				Params:      params,
				InitialCash: req.InitialCash,
				FeeBps:      req.FeeBps,
				SlippageBps: req.SlippageBps,
				ShareMode:   req.ShareMode,
			})
			if err != nil {
				// A bad grid point does not abort the sweep.
				runs[i] = dto.SweepRunSummary{Params: params, Error: err.Error()}
				return nil
			}

			results[i] = result
			runs[i] = dto.SweepRunSummary{
				Params:      params,
				Objective:   objectiveValue(result.Summary, objective),
				FinalEquity: result.FinalEquity,
				Summary:     result.Summary,
				TradeStats:  result.TradeStats,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sweep := &dto.SweepResult{
		Symbol:    req.Symbol,
		Strategy:  req.Strategy,
		Objective: objective,
		Runs:      runs,
	}

	bestIdx := -1
	bestValue := math.Inf(-1)
	for i, result := range results {
		if result == nil {
			continue
		}
		if v := runs[i].Objective; v > bestValue {
			bestValue = v
			bestIdx = i
		}
	}

	if bestIdx >= 0 {
		sweep.Best = results[bestIdx]
		if err := s.backtestService.SaveRun(ctx, sweep.Best); err != nil {
			s.log.WarnContext(ctx, "Failed to persist best sweep run", logger.ErrorField(err))
		}
		s.log.InfoContext(ctx, "Sweep completed",
			logger.StringField("symbol", req.Symbol),
			logger.Field("best_params", sweep.Best.Params),
			logger.Float64Field("best_objective", bestValue),
		)
	} else {
		s.log.WarnContext(ctx, "Sweep completed with no successful runs",
			logger.StringField("symbol", req.Symbol),
		)
	}

	return sweep, nil
}

func objectiveValue(summary backtest.Summary, objective string) float64 {
	switch objective {
	case "sortino":
		return summary.Sortino
	case "total_return":
		return summary.TotalReturn
	case "cagr":
		return summary.CAGR
	default:
		return summary.Sharpe
	}
}
