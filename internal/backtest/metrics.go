package backtest

import "math"

// DefaultPeriodsPerYear is the annualization factor for daily bars.
const DefaultPeriodsPerYear = 252.0

// Summary is the flat performance report derived from an equity curve.
// Degenerate inputs (zero variance, fewer than two points) resolve to zero
// rather than NaN so the values are always safe to aggregate.
type Summary struct {
	TotalReturn         float64 `json:"total_return"`
	CAGR                float64 `json:"cagr"`
	Volatility          float64 `json:"volatility"`
	Sharpe              float64 `json:"sharpe"`
	Sortino             float64 `json:"sortino"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration"`
}

// Summarize computes the full performance report for an equity curve.
// periodsPerYear converts per-bar statistics to annualized ones; the
// simulator itself is period-unit-agnostic, so the caller supplies it.
func Summarize(equity Series, periodsPerYear float64) Summary {
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}

	returns := equityToReturns(equity)

	return Summary{
		TotalReturn:         totalReturn(equity),
		CAGR:                cagr(equity, periodsPerYear),
		Volatility:          annualizedVolatility(returns, periodsPerYear),
		Sharpe:              sharpe(returns, periodsPerYear),
		Sortino:             sortino(returns, periodsPerYear),
		MaxDrawdown:         maxDrawdown(equity),
		MaxDrawdownDuration: maxDrawdownDuration(equity),
	}
}

// equityToReturns converts an equity curve to simple per-bar returns.
// A curve with fewer than two points yields an empty slice.
func equityToReturns(equity Series) []float64 {
	if equity.Len() < 2 {
		return nil
	}
	returns := make([]float64, 0, equity.Len()-1)
	for t := 1; t < equity.Len(); t++ {
		returns = append(returns, equity.Values[t]/equity.Values[t-1]-1)
	}
	return returns
}

func totalReturn(equity Series) float64 {
	if equity.Len() < 2 || equity.First() == 0 {
		return 0
	}
	return equity.Last()/equity.First() - 1
}

func cagr(equity Series, periodsPerYear float64) float64 {
	if equity.Len() < 2 || equity.First() <= 0 {
		return 0
	}
	periods := float64(equity.Len() - 1)
	return math.Pow(equity.Last()/equity.First(), periodsPerYear/periods) - 1
}

func annualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return stdev(returns) * math.Sqrt(periodsPerYear)
}

// sharpe is mean return over return volatility, annualized. Zero variance
// resolves to zero rather than propagating NaN into reports.
func sharpe(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	vol := stdev(returns)
	if vol == 0 || math.IsNaN(vol) {
		return 0
	}
	return mean(returns) / vol * math.Sqrt(periodsPerYear)
}

// sortino is like sharpe but the denominator only penalizes downside bars.
func sortino(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return 0
	}
	downsideVol := stdev(downside)
	if downsideVol == 0 || math.IsNaN(downsideVol) {
		return 0
	}
	return mean(returns) / downsideVol * math.Sqrt(periodsPerYear)
}

func maxDrawdown(equity Series) float64 {
	if equity.Len() == 0 {
		return 0
	}
	peak := equity.Values[0]
	minDD := 0.0
	for _, v := range equity.Values {
		if v > peak {
			peak = v
		}
		dd := v/peak - 1
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD
}

// maxDrawdownDuration is the longest contiguous run of bars strictly below
// the prior running peak. A bar matching the peak ends the run.
func maxDrawdownDuration(equity Series) int {
	longest, current := 0, 0
	peak := math.Inf(-1)
	for _, v := range equity.Values {
		if v > peak {
			peak = v
		}
		if v < peak {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdev is the population (ddof=0) standard deviation.
func stdev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
