// Package comparison lines several securities up on common dates.
package comparison

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"StockTracker/internal/calculator"
	"StockTracker/internal/model"
)

// Column is one security's aligned series.
type Column struct {
	Symbol     string    `json:"symbol"`
	Closes     []float64 `json:"closes"`
	Normalized []float64 `json:"normalized"` // base 100
	Volumes    []float64 `json:"volumes"`
}

// Summary is the per-security metrics row, computed over the security's own bars.
type Summary struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	AvgVolume     float64 `json:"avg_volume"`
	MaxVolume     float64 `json:"max_volume"`
	MinVolume     float64 `json:"min_volume"`
}

// Distribution is the five-number summary of daily returns.
type Distribution struct {
	Symbol string  `json:"symbol"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// MarshalJSON writes the statistics of an empty distribution as null.
func (d Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol string   `json:"symbol"`
		Min    *float64 `json:"min"`
		Q1     *float64 `json:"q1"`
		Median *float64 `json:"median"`
		Q3     *float64 `json:"q3"`
		Max    *float64 `json:"max"`
		Count  int      `json:"count"`
	}{d.Symbol, calculator.Finite(d.Min), calculator.Finite(d.Q1), calculator.Finite(d.Median),
		calculator.Finite(d.Q3), calculator.Finite(d.Max), d.Count})
}

// Result is the full comparison view.
type Result struct {
	Times     []time.Time    `json:"times"`
	Columns   []Column       `json:"columns"`
	Summaries []Summary      `json:"summaries"`
	Returns   []Distribution `json:"returns"`
	Missing   []string       `json:"missing,omitempty"`
}

// Compare builds the comparison of secs. Securities without bars are moved to
// Missing; zero or one security yields a valid, possibly empty, result.
func Compare(secs []*model.Security) Result {
	var res Result
	var usable []*model.Security
	for _, s := range secs {
		if s == nil {
			continue
		}
		if len(s.Bars) == 0 {
			res.Missing = append(res.Missing, s.Symbol)
			continue
		}
		usable = append(usable, s)
	}

	res.Times, res.Columns = Align(usable)
	for _, s := range usable {
		res.Summaries = append(res.Summaries, Summarize(s.Symbol, s.Bars))
		res.Returns = append(res.Returns, Quartiles(s.Symbol, calculator.DailyReturns(model.Closes(s.Bars))))
	}
	return res
}

// Align keeps the calendar days present in every security and returns the
// closes and volumes on those days, oldest first.
func Align(secs []*model.Security) ([]time.Time, []Column) {
	if len(secs) == 0 {
		return nil, nil
	}
	type dayKey struct {
		y int
		m time.Month
		d int
	}
	keyOf := func(t time.Time) dayKey {
		y, m, d := t.Date()
		return dayKey{y, m, d}
	}

	counts := make(map[dayKey]int)
	first := make(map[dayKey]time.Time)
	perSec := make([]map[dayKey]model.OHLCV, len(secs))
	for i, s := range secs {
		perSec[i] = make(map[dayKey]model.OHLCV, len(s.Bars))
		for _, b := range s.Bars {
			k := keyOf(b.Time)
			if _, dup := perSec[i][k]; dup {
				continue
			}
			perSec[i][k] = b
			counts[k]++
			if _, ok := first[k]; !ok {
				first[k] = b.Time
			}
		}
	}

	var keys []dayKey
	for k, n := range counts {
		if n == len(secs) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return first[keys[i]].Before(first[keys[j]]) })

	times := make([]time.Time, len(keys))
	for i, k := range keys {
		times[i] = first[k]
	}
	cols := make([]Column, len(secs))
	for i, s := range secs {
		col := Column{
			Symbol:  s.Symbol,
			Closes:  make([]float64, len(keys)),
			Volumes: make([]float64, len(keys)),
		}
		for j, k := range keys {
			b := perSec[i][k]
			col.Closes[j] = b.Close
			col.Volumes[j] = b.Volume
		}
		col.Normalized = calculator.Normalize(col.Closes)
		cols[i] = col
	}
	return times, cols
}

// Summarize computes the metrics row for one security.
func Summarize(symbol string, bars []model.OHLCV) Summary {
	s := Summary{Symbol: symbol}
	if len(bars) == 0 {
		return s
	}
	pr, _ := calculator.PeriodRange(bars)
	vs := calculator.CalculateVolumeStats(bars)
	first, last := bars[0].Close, bars[len(bars)-1].Close
	s.Current = last
	s.Change = last - first
	s.PercentChange = calculator.PercentChange(first, last)
	s.High = pr.High
	s.Low = pr.Low
	s.AvgVolume = vs.Avg
	s.MaxVolume = vs.Max
	s.MinVolume = vs.Min
	return s
}

// Quartiles returns the five-number summary of values, ignoring NaN.
// Quartiles use linear interpolation between closest ranks.
func Quartiles(symbol string, values []float64) Distribution {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	d := Distribution{Symbol: symbol, Count: len(clean)}
	if len(clean) == 0 {
		nan := math.NaN()
		d.Min, d.Q1, d.Median, d.Q3, d.Max = nan, nan, nan, nan, nan
		return d
	}
	sort.Float64s(clean)
	d.Min = clean[0]
	d.Max = clean[len(clean)-1]
	d.Q1 = quantile(clean, 0.25)
	d.Median = quantile(clean, 0.5)
	d.Q3 = quantile(clean, 0.75)
	return d
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
