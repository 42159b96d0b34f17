package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMASeries_TrailingMean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(60)
		values := make([]float64, n)
		for i := range values {
			values[i] = 50 + rng.Float64()*100
		}
		period := 1 + rng.Intn(n)

		got, err := SMASeries(values, period)
		require.NoError(t, err)
		require.Len(t, got, n)

		for i := range values {
			if i < period-1 {
				assert.True(t, math.IsNaN(got[i]), "position %d should be NaN for period %d", i, period)
				continue
			}
			sum := 0.0
			for j := i - period + 1; j <= i; j++ {
				sum += values[j]
			}
			assert.InDelta(t, sum/float64(period), got[i], 1e-9)
		}
	}
}

func TestSMASeries_InvalidPeriod(t *testing.T) {
	_, err := SMASeries([]float64{1, 2, 3}, 0)
	require.Error(t, err)
	_, err = SMASeries([]float64{1, 2, 3}, -2)
	require.Error(t, err)
}

func TestSMASeries_ShortInput(t *testing.T) {
	got, err := SMASeries([]float64{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, v, 1e-12)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, errNotEnough)
}

func TestEMASeries(t *testing.T) {
	got, err := EMASeries([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)
}

func TestEMAAdjustFalse(t *testing.T) {
	got, err := EMAAdjustFalse([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.5, got[1], 1e-12)
	assert.InDelta(t, 2.25, got[2], 1e-12)
}

func TestMovingAverages_SkipsLongPeriods(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	got, skipped := MovingAverages(closes, []int{2, 5, 20})
	assert.Contains(t, got, 2)
	assert.Contains(t, got, 5)
	assert.Equal(t, []int{20}, skipped)
	assert.InDelta(t, 3.0, got[5][4], 1e-12)
}
