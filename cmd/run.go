package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/service"
	"golang-backtest/internal/strategy"

	"github.com/spf13/cobra"
)

var runFlags struct {
	symbol        string
	dataRange     string
	interval      string
	strategyName  string
	fast          int
	slow          int
	lookback      int
	entry         float64
	exit          float64
	includeLedger bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single backtest and print the result as JSON",
	Run:   RunOnce,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.symbol, "symbol", "", "ticker symbol (required)")
	runCmd.Flags().StringVar(&runFlags.dataRange, "range", "1y", "data range, e.g. 6mo, 1y, 5y")
	runCmd.Flags().StringVar(&runFlags.interval, "interval", "1d", "bar interval, e.g. 1d, 1h")
	runCmd.Flags().StringVar(&runFlags.strategyName, "strategy", strategy.StrategyTypeSMACrossover, "strategy: sma_crossover or mean_reversion")
	runCmd.Flags().IntVar(&runFlags.fast, "fast", 10, "fast SMA window")
	runCmd.Flags().IntVar(&runFlags.slow, "slow", 30, "slow SMA window")
	runCmd.Flags().IntVar(&runFlags.lookback, "lookback", 20, "z-score lookback window")
	runCmd.Flags().Float64Var(&runFlags.entry, "entry", 2.0, "z-score entry threshold")
	runCmd.Flags().Float64Var(&runFlags.exit, "exit", 0.5, "z-score exit band")
	runCmd.Flags().BoolVar(&runFlags.includeLedger, "ledger", false, "include the full bar-by-bar ledger in the output")
	_ = runCmd.MarkFlagRequired("symbol")
}

// RunOnce executes one backtest without persistence; no database required.
func RunOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx, false)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, nil, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo)

	result, err := services.BacktestService.RunTransient(ctx, dto.BacktestRequest{
		Symbol:   runFlags.symbol,
		Range:    runFlags.dataRange,
		Interval: runFlags.interval,
		Strategy: runFlags.strategyName,
		Params: strategy.Params{
			Fast:     runFlags.fast,
			Slow:     runFlags.slow,
			Lookback: runFlags.lookback,
			Entry:    runFlags.entry,
			Exit:     runFlags.exit,
		},
		IncludeLedger: runFlags.includeLedger,
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
