package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/model"
)

func bar(y int, m time.Month, d int, c float64) model.OHLCV {
	return model.OHLCV{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Open: c, High: c, Low: c, Close: c, Volume: 10}
}

func TestWriteReadBars_MergeAcrossYears(t *testing.T) {
	a := NewParquetArchive(t.TempDir())
	ctx := context.Background()

	require.NoError(t, a.WriteBars(ctx, "aapl", []model.OHLCV{
		bar(2023, 12, 28, 1), bar(2023, 12, 29, 2), bar(2024, 1, 2, 3),
	}))
	// overlapping write replaces 2024-01-02 and appends 2024-01-03
	require.NoError(t, a.WriteBars(ctx, "AAPL", []model.OHLCV{
		bar(2024, 1, 2, 30), bar(2024, 1, 3, 4),
	}))

	got, err := a.ReadBars(ctx, "AAPL", time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, 30.0, got[1].Close)
	assert.Equal(t, 4.0, got[2].Close)

	syms, err := a.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, syms)
}

func TestReadBars_Missing(t *testing.T) {
	a := NewParquetArchive(t.TempDir())
	got, err := a.ReadBars(context.Background(), "NONE", time.Now().AddDate(-1, 0, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMergeBarRecords(t *testing.T) {
	got := mergeBarRecords(
		[]BarRecord{{Timestamp: 2, Close: 1}, {Timestamp: 1, Close: 1}},
		[]BarRecord{{Timestamp: 2, Close: 9}},
	)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Timestamp)
	assert.Equal(t, 9.0, got[1].Close)
}
