package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	errPeriod    = errors.New("period must be positive")
	errNotEnough = errors.New("not enough data")
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d): %w", period, errNotEnough)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the rolling simple moving average aligned with prices.
// Position i holds the mean of prices[i-period+1..i]; earlier positions are NaN.
func SMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(prices))
	if len(prices) < period {
		return out, nil
	}
	for i := period - 1; i < len(prices); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += prices[j]
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}

// EMASeries returns the exponential moving average seeded with the SMA of
// the first full window. Positions before the seed are NaN.
func EMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(prices))
	if len(prices) < period {
		return out, nil
	}
	k := 2.0 / float64(period+1)
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	out[period-1] = seed / float64(period)
	for i := period; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*k + out[i-1]
	}
	return out, nil
}

// EMAAdjustFalse is the recursive EMA seeded with the first value, as used for
// MACD. NaN inputs carry the previous value forward.
func EMAAdjustFalse(prices []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(prices))
	k := 2.0 / float64(span+1)
	started := false
	for i, p := range prices {
		switch {
		case math.IsNaN(p):
			if started {
				out[i] = out[i-1]
			}
		case !started:
			out[i] = p
			started = true
		default:
			out[i] = (p-out[i-1])*k + out[i-1]
		}
	}
	return out, nil
}

// MovingAverages computes one SMA series per requested period. Periods longer
// than the data are skipped and reported back.
func MovingAverages(closes []float64, periods []int) (map[int][]float64, []int) {
	out := make(map[int][]float64, len(periods))
	var skipped []int
	for _, p := range periods {
		if p <= 0 || len(closes) < p {
			skipped = append(skipped, p)
			continue
		}
		s, err := SMASeries(closes, p)
		if err != nil {
			skipped = append(skipped, p)
			continue
		}
		out[p] = s
	}
	return out, skipped
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
