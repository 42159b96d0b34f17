package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTradingDays_KnownCounts(t *testing.T) {
	assert.Equal(t, 252, TradingDays(day(2024, 1, 1), day(2025, 1, 1)))
	assert.Equal(t, 21, TradingDays(day(2024, 1, 1), day(2024, 2, 1)))
	assert.Equal(t, 0, TradingDays(day(2024, 1, 6), day(2024, 1, 8)))
	assert.Equal(t, 0, TradingDays(day(2024, 5, 1), day(2024, 5, 1)))
}

func TestIsTradingDay_Holidays(t *testing.T) {
	closed := []time.Time{
		day(2024, 1, 1),   // New Year's Day
		day(2024, 1, 15),  // MLK
		day(2024, 2, 19),  // Presidents' Day
		day(2024, 3, 29),  // Good Friday
		day(2024, 5, 27),  // Memorial Day
		day(2024, 6, 19),  // Juneteenth
		day(2024, 7, 4),   // Independence Day
		day(2024, 9, 2),   // Labor Day
		day(2024, 11, 28), // Thanksgiving
		day(2024, 12, 25), // Christmas
		day(2021, 12, 24), // Christmas observed on Friday
		day(2023, 1, 2),   // New Year's observed on Monday
	}
	for _, d := range closed {
		assert.False(t, IsTradingDay(d), d.Format("2006-01-02"))
	}
	// Saturday New Year's Day is not moved back.
	assert.True(t, IsTradingDay(day(2021, 12, 31)))
	assert.True(t, IsTradingDay(day(2024, 3, 28)))
	assert.False(t, IsTradingDay(day(2024, 3, 30)))
}
