package calculator

import (
	"StockTracker/internal/model"
)

// RSI zone labels.
const (
	RSIOverbought = "Overbought"
	RSIBullish    = "Bullish"
	RSINeutral    = "Neutral"
	RSIBearish    = "Bearish"
	RSIOversold   = "Oversold"
)

// CalculateRSI computes the Wilder-smoothed RSI of the last bar.
// Requires at least period+1 bars. Returns 50.0 if data is insufficient.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(bars) < period+1 {
		return 50.0, nil
	}
	series, err := RSISeries(model.Closes(bars), period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// RSISeries computes the Wilder-smoothed RSI for every close.
// The first period positions are NaN.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(closes))
	if len(closes) <= period {
		return out, nil
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// RSICategory buckets an RSI reading into a zone.
func RSICategory(rsi float64) string {
	switch {
	case rsi >= 70:
		return RSIOverbought
	case rsi <= 30:
		return RSIOversold
	case rsi < 45:
		return RSIBearish
	case rsi < 55:
		return RSINeutral
	default:
		return RSIBullish
	}
}
