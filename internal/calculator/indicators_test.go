package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/model"
)

func barsFromCloses(closes ...float64) []model.OHLCV {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 * (i + 1)),
		}
	}
	return bars
}

func TestRSISeries_Wilder(t *testing.T) {
	got, err := RSISeries([]float64{10, 11, 10, 11, 10}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 50.0, got[2], 1e-9)
	// avgGain = (0.5+1)/2, avgLoss = 0.5/2 -> rs = 3
	assert.InDelta(t, 75.0, got[3], 1e-9)
}

func TestRSISeries_OnlyGains(t *testing.T) {
	got, err := RSISeries([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got[5], 1e-12)
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	v, err := CalculateRSI(barsFromCloses(1, 2, 3), 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)
}

func TestRSICategory(t *testing.T) {
	cases := map[float64]string{
		75: RSIOverbought,
		70: RSIOverbought,
		60: RSIBullish,
		50: RSINeutral,
		40: RSIBearish,
		30: RSIOversold,
		12: RSIOversold,
	}
	for v, want := range cases {
		assert.Equal(t, want, RSICategory(v), "rsi %.0f", v)
	}
}

func TestMACD_FlatSeriesIsZero(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	res := MACD(closes)
	require.Len(t, res.MACD, 40)
	for i := range closes {
		assert.InDelta(t, 0, res.MACD[i], 1e-12)
		assert.InDelta(t, 0, res.Signal[i], 1e-12)
		assert.InDelta(t, 0, res.Histogram[i], 1e-12)
	}
}

func TestMACD_ReferenceValues(t *testing.T) {
	res := MACDWith([]float64{1, 2, 3}, 1, 3, 3)
	// fast span 1 tracks the closes; slow is 1, 1.5, 2.25
	assert.InDelta(t, 0.0, res.MACD[0], 1e-12)
	assert.InDelta(t, 0.5, res.MACD[1], 1e-12)
	assert.InDelta(t, 0.75, res.MACD[2], 1e-12)
	assert.InDelta(t, 0.25, res.Signal[1], 1e-12)
	assert.InDelta(t, 0.5, res.Signal[2], 1e-12)
	assert.InDelta(t, 0.25, res.Histogram[2], 1e-12)
}

func TestBollinger(t *testing.T) {
	b, err := Bollinger([]float64{1, 2, 3}, 3, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(b.Upper[1]))
	assert.InDelta(t, 2.0, b.Middle[2], 1e-12)
	assert.InDelta(t, 4.0, b.Upper[2], 1e-12)
	assert.InDelta(t, 0.0, b.Lower[2], 1e-12)
	assert.InDelta(t, 2.0, b.Width[2], 1e-12)
}

func TestBollinger_FlatWidthZero(t *testing.T) {
	b, err := Bollinger([]float64{5, 5, 5, 5, 5}, 3, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, b.Width[4], 1e-12)
}

func TestDailyReturnsAndStats(t *testing.T) {
	rets := DailyReturns([]float64{100, 110, 99})
	assert.True(t, math.IsNaN(rets[0]))
	assert.InDelta(t, 10.0, rets[1], 1e-9)
	assert.InDelta(t, -10.0, rets[2], 1e-9)

	st := CalculateReturnStats([]float64{100, 110, 99, 99})
	assert.Equal(t, 4, st.TotalDays)
	assert.Equal(t, 1, st.PositiveDays)
	assert.Equal(t, 1, st.NegativeDays)
	assert.Equal(t, 2, st.NeutralDays)
	assert.InDelta(t, 10.0, st.AvgGain, 1e-9)
	assert.InDelta(t, -10.0, st.AvgLoss, 1e-9)
	assert.InDelta(t, 10.0, st.MaxGain, 1e-9)
	assert.InDelta(t, -10.0, st.MaxLoss, 1e-9)
	assert.InDelta(t, -1.0, st.TotalReturn, 1e-9)
	assert.InDelta(t, 10.0, st.Volatility, 1e-9)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{50, 75, 25})
	assert.Equal(t, []float64{100, 150, 50}, got)
}

func TestPeriodRange(t *testing.T) {
	bars := barsFromCloses(10, 12, 11)
	pr, err := PeriodRange(bars)
	require.NoError(t, err)
	assert.Equal(t, 13.0, pr.High)
	assert.Equal(t, 9.0, pr.Low)
	assert.InDelta(t, 11.0, pr.AvgClose, 1e-12)
	assert.InDelta(t, 1.0, pr.Change, 1e-12)
	assert.InDelta(t, 10.0, pr.PercentChange, 1e-9)

	_, err = PeriodRange(nil)
	assert.Error(t, err)
}

func TestCalculate52WeekPosition(t *testing.T) {
	pos, err := Calculate52WeekPosition(150, 200, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pos, 1e-12)

	pos, _ = Calculate52WeekPosition(250, 200, 100)
	assert.Equal(t, 1.0, pos)

	_, err = Calculate52WeekPosition(1, 1, 2)
	assert.Error(t, err)
}

func TestCrossovers(t *testing.T) {
	nan := math.NaN()
	short := []float64{nan, 1, 2, 3, 2, 1}
	long := []float64{nan, 2, 2, 2, 2, 2}
	got := Crossovers(short, long)
	assert.Equal(t, []Crossover{{Index: 3, Bullish: true}, {Index: 4, Bullish: false}}, got)
}

func TestVolumeByPrice(t *testing.T) {
	bars := []model.OHLCV{
		{Close: 10, Volume: 1},
		{Close: 20, Volume: 2},
		{Close: 30, Volume: 3},
	}
	got := VolumeByPrice(bars, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].Volume)
	assert.Equal(t, 5.0, got[1].Volume)
	assert.Equal(t, 10.0, got[0].Low)
	assert.Equal(t, 30.0, got[1].High)

	assert.Nil(t, VolumeByPrice(nil, 4))
}
