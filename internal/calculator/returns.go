package calculator

import (
	"encoding/json"
	"math"
)

// PercentChange returns the move from first to last in percent.
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// DailyReturns returns the bar-over-bar percent change of closes.
// The first position is NaN.
func DailyReturns(closes []float64) []float64 {
	out := nanSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out[i] = (closes[i] - closes[i-1]) / closes[i-1] * 100
	}
	return out
}

// Normalize rebases a series so that its first value is 100.
func Normalize(closes []float64) []float64 {
	out := nanSeries(len(closes))
	if len(closes) == 0 || closes[0] == 0 {
		return out
	}
	for i, c := range closes {
		out[i] = c / closes[0] * 100
	}
	return out
}

// ReturnStats summarises a daily-return series.
type ReturnStats struct {
	TotalDays    int     `json:"total_days"`
	PositiveDays int     `json:"positive_days"`
	NegativeDays int     `json:"negative_days"`
	NeutralDays  int     `json:"neutral_days"`
	AvgGain      float64 `json:"avg_gain"`
	AvgLoss      float64 `json:"avg_loss"`
	MaxGain      float64 `json:"max_gain"`
	MaxLoss      float64 `json:"max_loss"`
	Mean         float64 `json:"mean"`
	Volatility   float64 `json:"volatility"`
	TotalReturn  float64 `json:"total_return"`
}

// CalculateReturnStats derives day counts, averages and volatility from closes.
// Days without a defined return (the first bar) count as neutral.
func CalculateReturnStats(closes []float64) ReturnStats {
	rets := DailyReturns(closes)
	st := ReturnStats{TotalDays: len(closes)}
	if len(closes) == 0 {
		return st
	}

	var gainSum, lossSum, sum float64
	var defined int
	st.MaxGain = math.Inf(-1)
	st.MaxLoss = math.Inf(1)
	for _, r := range rets {
		if math.IsNaN(r) {
			continue
		}
		defined++
		sum += r
		if r > st.MaxGain {
			st.MaxGain = r
		}
		if r < st.MaxLoss {
			st.MaxLoss = r
		}
		switch {
		case r > 0:
			st.PositiveDays++
			gainSum += r
		case r < 0:
			st.NegativeDays++
			lossSum += r
		}
	}
	st.NeutralDays = st.TotalDays - st.PositiveDays - st.NegativeDays

	if defined == 0 {
		st.MaxGain, st.MaxLoss = math.NaN(), math.NaN()
		st.Mean, st.Volatility = math.NaN(), math.NaN()
	} else {
		st.Mean = sum / float64(defined)
		st.Volatility = sampleStdDev(rets)
	}
	st.AvgGain = math.NaN()
	if st.PositiveDays > 0 {
		st.AvgGain = gainSum / float64(st.PositiveDays)
	}
	st.AvgLoss = math.NaN()
	if st.NegativeDays > 0 {
		st.AvgLoss = lossSum / float64(st.NegativeDays)
	}
	st.TotalReturn = PercentChange(closes[0], closes[len(closes)-1])
	return st
}

// MarshalJSON writes undefined statistics as null.
func (st ReturnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalDays    int      `json:"total_days"`
		PositiveDays int      `json:"positive_days"`
		NegativeDays int      `json:"negative_days"`
		NeutralDays  int      `json:"neutral_days"`
		AvgGain      *float64 `json:"avg_gain"`
		AvgLoss      *float64 `json:"avg_loss"`
		MaxGain      *float64 `json:"max_gain"`
		MaxLoss      *float64 `json:"max_loss"`
		Mean         *float64 `json:"mean"`
		Volatility   *float64 `json:"volatility"`
		TotalReturn  *float64 `json:"total_return"`
	}{
		st.TotalDays, st.PositiveDays, st.NegativeDays, st.NeutralDays,
		Finite(st.AvgGain), Finite(st.AvgLoss), Finite(st.MaxGain), Finite(st.MaxLoss),
		Finite(st.Mean), Finite(st.Volatility), Finite(st.TotalReturn),
	})
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Volatility is the sample standard deviation of daily returns in percent.
func Volatility(closes []float64) float64 {
	return sampleStdDev(DailyReturns(closes))
}
