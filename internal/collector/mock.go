package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"StockTracker/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Missing report ErrNoData; otherwise each symbol gets a
// deterministic series derived from its name.
type MockFetcher struct {
	Price   float64
	Bars    map[string][]model.OHLCV
	Missing map[string]bool
	Now     func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MockFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	now := m.now()
	return m.FetchRange(ctx, symbol, period.Start(now), now, interval)
}

func (m *MockFetcher) FetchRange(_ context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error) {
	if m.Missing[symbol] {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	if bars, ok := m.Bars[symbol]; ok {
		return resample(bars, interval), nil
	}
	bars := generateMockBars(m.basePrice(symbol), from, to, seed(symbol))
	if len(bars) == 0 {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	return resample(bars, interval), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	bars, err := m.FetchBars(ctx, symbol, model.Period1y, model.IntervalDay)
	if err != nil {
		return nil, err
	}
	q, err := quoteFromDaily(symbol, bars)
	if err != nil {
		return nil, err
	}
	q.ShortName = symbol
	q.Currency = "USD"
	q.Exchange = "MOCK"
	q.MarketCap = q.Price * float64(1+seed(symbol)%5000) * 1e6
	return q, nil
}

func (m *MockFetcher) basePrice(symbol string) float64 {
	if m.Price > 0 {
		return m.Price
	}
	return 20 + float64(seed(symbol)%480)
}

func seed(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}

// generateMockBars emits one bar per trading day in [from, to) following a
// gentle symbol-specific wave.
func generateMockBars(basePrice float64, from, to time.Time, s uint32) []model.OHLCV {
	var bars []model.OHLCV
	drift := (float64(s%7) - 3) * 0.0004
	i := 0
	for d := civil(from); d.Before(civil(to)); d = d.AddDate(0, 0, 1) {
		if !IsTradingDay(d) {
			continue
		}
		wave := float64((i+int(s%13))%20-10) * 0.002
		p := basePrice * (1 + drift*float64(i) + wave)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: float64(1000000 + (s%5)*100000 + uint32(i%10)*10000),
		})
		i++
	}
	return bars
}
