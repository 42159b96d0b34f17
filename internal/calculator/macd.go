package calculator

import "math"

// MACDResult holds the three MACD lines aligned with the input closes.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes MACD(12, 26) with a 9-period signal line.
func MACD(closes []float64) MACDResult {
	return MACDWith(closes, 12, 26, 9)
}

// MACDWith computes MACD with custom spans using recursive EMAs seeded with
// the first close.
func MACDWith(closes []float64, fast, slow, signal int) MACDResult {
	if len(closes) == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}
	}
	emaFast, _ := EMAAdjustFalse(closes, fast)
	emaSlow, _ := EMAAdjustFalse(closes, slow)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig, _ := EMAAdjustFalse(macd, signal)
	hist := make([]float64, len(closes))
	for i := range hist {
		if math.IsNaN(macd[i]) || math.IsNaN(sig[i]) {
			hist[i] = math.NaN()
			continue
		}
		hist[i] = macd[i] - sig[i]
	}
	return MACDResult{MACD: macd, Signal: sig, Histogram: hist}
}
