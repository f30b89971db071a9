// Package indicator provides vectorized technical indicators over
// index-aligned daily series. Every function returns a slice of the same
// length as its input; positions lacking history carry either NaN (shifts) or
// the indicator's documented warmup value. Comparisons downstream treat NaN
// as never-satisfied.
package indicator

import "math"

const epsilon = 1e-10

// Shift returns the series moved forward by n positions: position i takes the
// value from position i-n. The first n positions have no history and are NaN.
func Shift(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
		} else {
			out[i] = values[i-n]
		}
	}
	return out
}

// SMA returns the simple moving average over a trailing window. Positions
// with fewer than window prior observations average over what is available
// instead of going undefined, so the output is bar-aligned with the input
// from position 0.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		var count int
		for j := lo; j <= i; j++ {
			if !math.IsNaN(values[j]) {
				sum += values[j]
				count++
			}
		}
		if count == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// RSI returns the Wilder-style relative strength index. Average gain and loss
// are exponentially weighted with smoothing factor 1/window; positions before
// the first window observations report the neutral value 50.
func RSI(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	alpha := 1.0 / float64(window)

	var avgGain, avgLoss float64
	for i := range values {
		var gain, loss float64
		if i > 0 {
			delta := values[i] - values[i-1]
			if !math.IsNaN(delta) {
				if delta > 0 {
					gain = delta
				} else {
					loss = -delta
				}
			}
		}

		if i == 0 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain += alpha * (gain - avgGain)
			avgLoss += alpha * (loss - avgLoss)
		}

		if i < window-1 {
			out[i] = 50.0
			continue
		}
		rs := avgGain / (avgLoss + epsilon)
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
