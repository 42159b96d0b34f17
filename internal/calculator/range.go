package calculator

import (
	"errors"
	"math"

	"StockTracker/internal/model"
)

var errNoBars = errors.New("no bars provided")

// Calculate52WeekRange scans the most recent 252 trading days and returns the high and low.
func Calculate52WeekRange(dailyBars []model.OHLCV) (high, low float64, err error) {
	return trailingRange(dailyBars, 252)
}

// Calculate30DayRange scans the most recent 22 trading days and returns the high and low.
func Calculate30DayRange(dailyBars []model.OHLCV) (high, low float64, err error) {
	return trailingRange(dailyBars, 22)
}

func trailingRange(bars []model.OHLCV, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errNoBars
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// Calculate52WeekPosition returns where the current price sits within the 52-week range (0.0~1.0).
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// PeriodSummary is the headline statistics of a bar series.
type PeriodSummary struct {
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	AvgClose      float64 `json:"avg_close"`
	Open          float64 `json:"open"`
	Close         float64 `json:"close"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	AvgVolume     float64 `json:"avg_volume"`
}

// PeriodRange summarises the whole series: extremes, average close, and the
// move from the first open to the last close.
func PeriodRange(bars []model.OHLCV) (PeriodSummary, error) {
	if len(bars) == 0 {
		return PeriodSummary{}, errNoBars
	}
	high, low, _ := trailingRange(bars, len(bars))
	var closeSum, volSum float64
	for _, b := range bars {
		closeSum += b.Close
		volSum += b.Volume
	}
	n := float64(len(bars))
	first, last := bars[0], bars[len(bars)-1]
	return PeriodSummary{
		High:          high,
		Low:           low,
		AvgClose:      closeSum / n,
		Open:          first.Open,
		Close:         last.Close,
		Change:        last.Close - first.Open,
		PercentChange: PercentChange(first.Open, last.Close),
		AvgVolume:     volSum / n,
	}, nil
}
