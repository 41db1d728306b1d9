package strategy

import (
	"fmt"
	"math"
)

// SMA computes a simple moving average with a full-window warmup: the first
// window-1 values are NaN.
func SMA(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be at least 1, got %d", window)
	}

	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// ZScore computes a rolling z-score over the lookback window using the
// population standard deviation. Warmup values are NaN; a zero-deviation
// window yields 0 rather than Inf.
func ZScore(values []float64, lookback int) ([]float64, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be at least 1, got %d", lookback)
	}

	out := make([]float64, len(values))
	for i := range values {
		if i < lookback-1 {
			out[i] = math.NaN()
			continue
		}
		window := values[i-lookback+1 : i+1]

		var sum float64
		for _, v := range window {
			sum += v
		}
		m := sum / float64(lookback)

		var sumSq float64
		for _, v := range window {
			d := v - m
			sumSq += d * d
		}
		sd := math.Sqrt(sumSq / float64(lookback))

		if sd == 0 {
			out[i] = 0
			continue
		}
		out[i] = (values[i] - m) / sd
	}
	return out, nil
}
