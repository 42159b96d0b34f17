package collector

import (
	"time"

	"StockTracker/internal/model"
)

// aggregateDailyToWeekly converts daily bars into weekly bars (Mon-Fri).
func aggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	return aggregate(daily, func(t time.Time) int {
		year, isoWeek := t.ISOWeek()
		return year*100 + isoWeek
	})
}

// aggregateDailyToMonthly converts daily bars into calendar-month bars.
func aggregateDailyToMonthly(daily []model.OHLCV) []model.OHLCV {
	return aggregate(daily, func(t time.Time) int {
		return t.Year()*100 + int(t.Month())
	})
}

// aggregate folds consecutive bars sharing a bucket key into one bar stamped
// with the first bar's time.
func aggregate(daily []model.OHLCV, key func(time.Time) int) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var out []model.OHLCV
	cur := daily[0]
	curKey := key(cur.Time)

	for _, d := range daily[1:] {
		k := key(d.Time)
		if k != curKey {
			out = append(out, cur)
			cur = d
			curKey = k
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	return append(out, cur)
}

// resample turns daily bars into the requested interval.
func resample(daily []model.OHLCV, interval model.Interval) []model.OHLCV {
	switch interval {
	case model.IntervalWeek:
		return aggregateDailyToWeekly(daily)
	case model.IntervalMonth:
		return aggregateDailyToMonthly(daily)
	default:
		return daily
	}
}
