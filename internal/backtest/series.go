package backtest

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrMisalignedIndex is returned when two series that must share an index do not.
	ErrMisalignedIndex = errors.New("series indices are misaligned")
	// ErrInvalidSeries is returned when a series violates the input contract
	// (non-increasing timestamps, non-positive or non-finite prices).
	ErrInvalidSeries = errors.New("invalid series")
	// ErrInvalidConfig is returned when simulation parameters are out of range.
	ErrInvalidConfig = errors.New("invalid simulation config")
)

// Series is an ordered, time-indexed sequence of numeric observations.
// Timestamps and Values are parallel slices of equal length; timestamps are
// strictly increasing with no duplicates.
type Series struct {
	Timestamps []time.Time
	Values     []float64
}

func NewSeries(timestamps []time.Time, values []float64) (Series, error) {
	if len(timestamps) != len(values) {
		return Series{}, fmt.Errorf("%w: %d timestamps vs %d values", ErrInvalidSeries, len(timestamps), len(values))
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return Series{}, fmt.Errorf("%w: timestamps not strictly increasing at index %d", ErrInvalidSeries, i)
		}
	}
	return Series{Timestamps: timestamps, Values: values}, nil
}

func (s Series) Len() int {
	return len(s.Values)
}

// First returns the first value, or 0 when the series is empty.
func (s Series) First() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Values[0]
}

// Last returns the last value, or 0 when the series is empty.
func (s Series) Last() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Values[s.Len()-1]
}

// SameIndex reports whether two series share an identical time index.
func (s Series) SameIndex(other Series) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.Timestamps {
		if !s.Timestamps[i].Equal(other.Timestamps[i]) {
			return false
		}
	}
	return true
}

// AlignNextBar shifts a raw signal series forward by one bar so that a
// decision computed from bar t's close is only actable at bar t+1. The first
// bar has no prior signal to act on and is forced flat. This is the single
// mechanism guarding against look-ahead bias; the simulator trusts its input
// to already be aligned.
func AlignNextBar(signal Series) Series {
	aligned := Series{
		Timestamps: signal.Timestamps,
		Values:     make([]float64, signal.Len()),
	}
	for t := 1; t < signal.Len(); t++ {
		aligned.Values[t] = signal.Values[t-1]
	}
	return aligned
}

// validatePrices rejects malformed price input eagerly so that a corrupted
// ledger is never produced.
func validatePrices(prices Series) error {
	for i, px := range prices.Values {
		if math.IsNaN(px) || math.IsInf(px, 0) {
			return fmt.Errorf("%w: non-finite price at index %d", ErrInvalidSeries, i)
		}
		if px <= 0 {
			return fmt.Errorf("%w: non-positive price %f at index %d", ErrInvalidSeries, px, i)
		}
	}
	for i := 1; i < len(prices.Timestamps); i++ {
		if !prices.Timestamps[i].After(prices.Timestamps[i-1]) {
			return fmt.Errorf("%w: timestamps not strictly increasing at index %d", ErrInvalidSeries, i)
		}
	}
	return nil
}

func validateSignal(signal Series) error {
	for i, v := range signal.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite signal at index %d", ErrInvalidSeries, i)
		}
	}
	return nil
}
