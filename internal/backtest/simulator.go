package backtest

import (
	"fmt"
	"math"

	"golang-backtest/pkg/logger"
)

// ShareMode controls how a target allocation is converted into a share count.
type ShareMode string

const (
	// IntegerShares floors the target quantity toward zero to whole units.
	IntegerShares ShareMode = "integer"
	// FractionalShares keeps the exact real-valued quantity.
	FractionalShares ShareMode = "fractional"
)

const bpsDivisor = 10_000.0

// SimulationConfig holds the friction and sizing parameters of one run.
// FeeBps and SlippageBps are basis points applied to traded notional.
type SimulationConfig struct {
	InitialCash    float64
	FeeBps         float64
	SlippageBps    float64
	ShareMode      ShareMode
	PeriodsPerYear float64
}

func (c SimulationConfig) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("%w: initial cash must be positive, got %f", ErrInvalidConfig, c.InitialCash)
	}
	if c.FeeBps < 0 {
		return fmt.Errorf("%w: fee bps must be non-negative, got %f", ErrInvalidConfig, c.FeeBps)
	}
	if c.SlippageBps < 0 {
		return fmt.Errorf("%w: slippage bps must be non-negative, got %f", ErrInvalidConfig, c.SlippageBps)
	}
	switch c.ShareMode {
	case IntegerShares, FractionalShares:
	default:
		return fmt.Errorf("%w: unknown share mode %q", ErrInvalidConfig, c.ShareMode)
	}
	return nil
}

// Simulator replays an aligned target-position series against a price series
// and produces the resulting ledger. A single run is strictly sequential:
// each bar's state depends on the previous bar's ending cash and shares.
// Independent runs share no state and may execute concurrently.
type Simulator struct {
	cfg SimulationConfig
	log *logger.Logger
}

func NewSimulator(cfg SimulationConfig, log *logger.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Simulator{cfg: cfg, log: log}, nil
}

// Simulate runs the execution state machine. The aligned series must already
// be shifted by AlignNextBar; the simulator does not re-align.
//
// Sizing allocates the full current equity (cash plus holdings marked at the
// bar's price) to the target exposure. When a buy cannot be funded, the trade
// is clamped down to the largest affordable quantity, logged at warn level,
// and the run continues; cash is never allowed to go negative.
func (s *Simulator) Simulate(prices, aligned Series) (*Ledger, error) {
	if !prices.SameIndex(aligned) {
		return nil, fmt.Errorf("%w: prices has %d bars, signal has %d", ErrMisalignedIndex, prices.Len(), aligned.Len())
	}
	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	if err := validateSignal(aligned); err != nil {
		return nil, err
	}

	feeRate := s.cfg.FeeBps / bpsDivisor
	slipRate := s.cfg.SlippageBps / bpsDivisor

	ledger := &Ledger{Rows: make([]Row, 0, prices.Len())}
	cash := s.cfg.InitialCash
	shares := 0.0

	for t := 0; t < prices.Len(); t++ {
		price := prices.Values[t]
		target := aligned.Values[t]

		equity := cash + shares*price
		targetShares := s.sizeShares(target * equity / price)
		tradeShares := targetShares - shares

		execPx := price
		fees := 0.0

		if tradeShares > 0 {
			// Buys fill above market; cost per share includes the fee.
			execPx = price * (1 + slipRate)
			affordable := s.sizeShares(cash / (execPx * (1 + feeRate)))
			if tradeShares > affordable {
				if affordable < 0 {
					affordable = 0
				}
				s.log.Warn("Insufficient capital, clamping trade",
					logger.IntField("bar", t),
					logger.Float64Field("requested_shares", tradeShares),
					logger.Float64Field("affordable_shares", affordable),
					logger.Float64Field("cash", cash),
				)
				tradeShares = affordable
				targetShares = shares + tradeShares
			}
		} else if tradeShares < 0 {
			// Sells fill below market.
			execPx = price * (1 - slipRate)
		}

		if tradeShares != 0 {
			notional := math.Abs(tradeShares) * execPx
			fees = notional * feeRate
			cash -= tradeShares*execPx + fees
			shares = targetShares
		} else {
			execPx = price
		}

		holdings := shares * price
		equity = cash + holdings

		ledger.Rows = append(ledger.Rows, Row{
			Timestamp:   prices.Timestamps[t],
			Position:    target,
			Shares:      shares,
			TradeShares: tradeShares,
			ExecPx:      execPx,
			Cash:        cash,
			Holdings:    holdings,
			Equity:      equity,
			Fees:        fees,
		})
	}

	return ledger, nil
}

func (s *Simulator) sizeShares(qty float64) float64 {
	if s.cfg.ShareMode == IntegerShares {
		return math.Trunc(qty)
	}
	return qty
}
