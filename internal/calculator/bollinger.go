package calculator

import "math"

// BollingerBands holds the band lines aligned with the input closes.
type BollingerBands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
	Width  []float64 // (upper - lower) / middle
}

// Bollinger computes bands of k sample standard deviations around the
// period-day SMA.
func Bollinger(closes []float64, period int, k float64) (BollingerBands, error) {
	mid, err := SMASeries(closes, period)
	if err != nil {
		return BollingerBands{}, err
	}
	n := len(closes)
	b := BollingerBands{
		Middle: mid,
		Upper:  nanSeries(n),
		Lower:  nanSeries(n),
		Width:  nanSeries(n),
	}
	if period < 2 {
		return b, nil
	}
	for i := period - 1; i < n; i++ {
		sd := sampleStdDev(closes[i-period+1 : i+1])
		b.Upper[i] = mid[i] + k*sd
		b.Lower[i] = mid[i] - k*sd
		if mid[i] != 0 {
			b.Width[i] = (b.Upper[i] - b.Lower[i]) / mid[i]
		}
	}
	return b, nil
}

// sampleStdDev is the n-1 standard deviation; NaN values are skipped.
func sampleStdDev(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}
