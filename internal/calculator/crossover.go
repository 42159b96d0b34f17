package calculator

import "math"

// Crossover marks a bar where the short average crosses the long one.
type Crossover struct {
	Index   int  `json:"index"`
	Bullish bool `json:"bullish"` // short crossed above long
}

// Crossovers finds every position where sign(short - long) flips.
// Positions where either series is undefined are ignored.
func Crossovers(short, long []float64) []Crossover {
	n := len(short)
	if len(long) < n {
		n = len(long)
	}
	var out []Crossover
	prev := 0
	for i := 0; i < n; i++ {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}
		sign := -1
		if short[i] > long[i] {
			sign = 1
		}
		if prev != 0 && sign != prev {
			out = append(out, Crossover{Index: i, Bullish: sign > 0})
		}
		prev = sign
	}
	return out
}
