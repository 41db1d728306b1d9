package backtest

import "time"

// Row is one bar of simulation output. Rows are computed once and never
// mutated after being appended to the ledger.
type Row struct {
	Timestamp   time.Time `json:"timestamp"`
	Position    float64   `json:"position"`
	Shares      float64   `json:"shares"`
	TradeShares float64   `json:"trade_shares"`
	ExecPx      float64   `json:"exec_px"`
	Cash        float64   `json:"cash"`
	Holdings    float64   `json:"holdings"`
	Equity      float64   `json:"equity"`
	Fees        float64   `json:"fees"`
}

// Ledger is the bar-by-bar record of a single simulation run. It is owned
// exclusively by the run that produced it.
type Ledger struct {
	Rows []Row
}

func (l *Ledger) Len() int {
	return len(l.Rows)
}

// EquityCurve returns the equity column as a series sharing the price index.
func (l *Ledger) EquityCurve() Series {
	curve := Series{
		Timestamps: make([]time.Time, len(l.Rows)),
		Values:     make([]float64, len(l.Rows)),
	}
	for i, row := range l.Rows {
		curve.Timestamps[i] = row.Timestamp
		curve.Values[i] = row.Equity
	}
	return curve
}

// TotalFees returns the sum of fees paid over the run.
func (l *Ledger) TotalFees() float64 {
	var total float64
	for _, row := range l.Rows {
		total += row.Fees
	}
	return total
}
