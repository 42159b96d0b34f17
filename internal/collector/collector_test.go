package collector

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/model"
)

var testNow = func() time.Time { return time.Date(2024, 6, 14, 21, 0, 0, 0, time.UTC) }

type countingFetcher struct {
	Fetcher
	calls    atomic.Int32
	failNext atomic.Bool
}

func (c *countingFetcher) FetchBars(ctx context.Context, symbol string, p model.Period, i model.Interval) ([]model.OHLCV, error) {
	c.calls.Add(1)
	if c.failNext.CompareAndSwap(true, false) {
		return nil, errors.New("boom")
	}
	return c.Fetcher.FetchBars(ctx, symbol, p, i)
}

type brokenQuote struct{ *MockFetcher }

func (brokenQuote) FetchQuote(context.Context, string) (*model.Quote, error) {
	return nil, errors.New("quote endpoint down")
}

func TestCachedFetcher_CachesSuccessOnly(t *testing.T) {
	inner := &countingFetcher{Fetcher: &MockFetcher{Now: testNow}}
	cf, err := NewCachedFetcher(inner, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	inner.failNext.Store(true)
	_, err = cf.FetchBars(ctx, "AAPL", model.Period1mo, model.IntervalDay)
	require.Error(t, err)

	first, err := cf.FetchBars(ctx, "AAPL", model.Period1mo, model.IntervalDay)
	require.NoError(t, err)
	second, err := cf.FetchBars(ctx, "AAPL", model.Period1mo, model.IntervalDay)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), inner.calls.Load())
}

// ctxFetcher fails when the context it is handed is already done.
type ctxFetcher struct {
	*MockFetcher
	calls    atomic.Int32
	deadline atomic.Bool
}

func (c *ctxFetcher) FetchBars(ctx context.Context, symbol string, p model.Period, i model.Interval) ([]model.OHLCV, error) {
	c.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, ok := ctx.Deadline()
	c.deadline.Store(ok)
	return c.MockFetcher.FetchBars(ctx, symbol, p, i)
}

func TestCachedFetcher_CallerCancelDoesNotFailShared(t *testing.T) {
	inner := &ctxFetcher{MockFetcher: &MockFetcher{Now: testNow}}
	cf, err := NewCachedFetcher(inner, time.Minute)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	bars, err := cf.FetchBars(cancelled, "AAPL", model.Period1mo, model.IntervalDay)
	require.NoError(t, err)
	assert.NotEmpty(t, bars)
	assert.True(t, inner.deadline.Load())

	again, err := cf.FetchBars(context.Background(), "AAPL", model.Period1mo, model.IntervalDay)
	require.NoError(t, err)
	assert.Equal(t, bars, again)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCollectorSecurity_QuoteFallback(t *testing.T) {
	c := NewCollector(brokenQuote{&MockFetcher{Now: testNow}})
	sec, err := c.Security(context.Background(), " msft ", model.Period3mo, model.IntervalDay)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", sec.Symbol)
	require.NotNil(t, sec.Quote)
	assert.Equal(t, sec.Bars[len(sec.Bars)-1].Close, sec.Quote.Price)
}

func TestCollectorSecurity_UnknownSymbol(t *testing.T) {
	c := NewCollector(&MockFetcher{Now: testNow, Missing: map[string]bool{"ZZZZ": true}})
	_, err := c.Security(context.Background(), "ZZZZ", model.Period1mo, model.IntervalDay)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = c.Security(context.Background(), "   ", model.Period1mo, model.IntervalDay)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollectorPerformance_SkipsFailures(t *testing.T) {
	c := NewCollector(&MockFetcher{Now: testNow, Missing: map[string]bool{"BAD": true}})
	perfs, err := c.Performance(context.Background(), []string{"AAA", "BAD", "CCC"}, model.Period1mo)
	require.NoError(t, err)
	require.Len(t, perfs, 2)
	assert.Equal(t, "AAA", perfs[0].Symbol)
	assert.Equal(t, "CCC", perfs[1].Symbol)

	_, err = c.Performance(context.Background(), []string{"BAD"}, model.Period1mo)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollectorDailyPerformance(t *testing.T) {
	bars := []model.OHLCV{
		{Close: 50, Volume: 1}, {Close: 100, Volume: 1}, {Close: 110, Volume: 5},
	}
	c := NewCollector(&MockFetcher{Now: testNow, Bars: map[string][]model.OHLCV{"X": bars}})
	perfs, err := c.DailyPerformance(context.Background(), []string{"X"})
	require.NoError(t, err)
	require.Len(t, perfs, 1)
	assert.Equal(t, 100.0, perfs[0].Start)
	assert.InDelta(t, 10.0, perfs[0].PercentChange, 1e-9)
	assert.Equal(t, 5.0, perfs[0].LastVolume)
}

func TestPerformanceOf(t *testing.T) {
	bars := []model.OHLCV{
		{Open: 9, High: 11, Low: 8, Close: 10, Volume: 100},
		{Open: 10, High: 13, Low: 9, Close: 12, Volume: 300},
	}
	p, err := PerformanceOf("X", bars)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.Change)
	assert.InDelta(t, 20.0, p.PercentChange, 1e-9)
	assert.Equal(t, 13.0, p.High)
	assert.Equal(t, 8.0, p.Low)
	assert.Equal(t, 200.0, p.AvgVolume)
}

func TestRank(t *testing.T) {
	perfs := []model.Performance{
		{Symbol: "A", PercentChange: 1},
		{Symbol: "B", PercentChange: -5},
		{Symbol: "C", PercentChange: 7},
		{Symbol: "D", PercentChange: 0},
	}
	top, bottom := Rank(perfs, 2)
	assert.Equal(t, "C", top[0].Symbol)
	assert.Equal(t, "A", top[1].Symbol)
	assert.Equal(t, "B", bottom[0].Symbol)
	assert.Equal(t, "D", bottom[1].Symbol)

	top, bottom = Rank(perfs[:1], 10)
	assert.Len(t, top, 1)
	assert.Len(t, bottom, 1)
}

func TestKeyedFetchersRequireKeys(t *testing.T) {
	_, err := NewPolygonFetcher("", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = NewAlpacaFetcher("id", "", "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
