package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"StockTracker/internal/calculator"
	"StockTracker/internal/model"
)

// Index names an overview market index.
type Index struct {
	Symbol string
	Name   string
}

// Indices are the market indices shown on the overview.
var Indices = []Index{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "NASDAQ"},
	{"^RUT", "Russell 2000"},
	{"^VIX", "VIX"},
	{"^FTSE", "FTSE 100"},
	{"^N225", "Nikkei 225"},
	{"^HSI", "Hang Seng"},
	{"^GDAXI", "DAX"},
}

// DefaultUniverse is scanned when the configuration names no tickers.
var DefaultUniverse = []string{
	"RELIANCE.BO", "TCS.BO", "INFY.BO", "HDFCBANK.BO", "ICICIBANK.BO",
	"HINDUNILVR.BO", "BHARTIARTL.BO", "SBIN.BO", "KOTAKBANK.BO", "WIPRO.BO",
	"ASIANPAINT.BO", "BAJFINANCE.BO", "LT.BO", "MARUTI.BO", "NESTLEIND.BO",
	"SUNPHARMA.BO", "TITAN.BO", "AXISBANK.BO", "BAJAJFINSV.BO", "HCLTECH.BO",
}

// Collector orchestrates data fetching for pages and jobs.
type Collector struct {
	Fetcher Fetcher
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, now: time.Now}
}

// NormalizeSymbol trims and upper-cases a user-entered ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Security fetches bars and quote for one ticker. A failing quote falls back
// to the last bar; a failing bar fetch is returned.
func (c *Collector) Security(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.Security, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", ErrNoData)
	}
	bars, err := c.Fetcher.FetchBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, ErrNoData)
	}

	sec := &model.Security{
		Symbol:    symbol,
		Period:    period,
		Interval:  interval,
		Bars:      bars,
		FetchedAt: c.now(),
	}
	quote, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] quote for %s failed: %v, using last bar", symbol, err)
		quote, _ = quoteFromDaily(symbol, bars)
	}
	sec.Quote = quote
	sec.Name = quote.ShortName
	if sec.Name == "" {
		sec.Name = symbol
	}
	return sec, nil
}

// Performance scans the universe over period. Symbols that fail are logged
// and skipped; an error is returned only when every symbol fails.
func (c *Collector) Performance(ctx context.Context, universe []string, period model.Period) ([]model.Performance, error) {
	return c.scan(ctx, universe, period, func(bars []model.OHLCV) []model.OHLCV { return bars })
}

// DailyPerformance measures each symbol of the universe from the previous
// session's close to the latest close.
func (c *Collector) DailyPerformance(ctx context.Context, universe []string) ([]model.Performance, error) {
	return c.scan(ctx, universe, model.Period5d, func(bars []model.OHLCV) []model.OHLCV {
		if len(bars) > 2 {
			return bars[len(bars)-2:]
		}
		return bars
	})
}

func (c *Collector) scan(ctx context.Context, universe []string, period model.Period, window func([]model.OHLCV) []model.OHLCV) ([]model.Performance, error) {
	var out []model.Performance
	var lastErr error
	for _, sym := range universe {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		bars, err := c.Fetcher.FetchBars(ctx, sym, period, model.IntervalDay)
		if err != nil {
			log.Printf("[WARN] performance %s: %v", sym, err)
			lastErr = err
			continue
		}
		p, err := PerformanceOf(sym, window(bars))
		if err != nil {
			log.Printf("[WARN] performance %s: %v", sym, err)
			lastErr = err
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 && lastErr != nil {
		if errors.Is(lastErr, ErrMissingAPIKey) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("performance scan: %w", ErrNoData)
	}
	return out, nil
}

// PerformanceOf summarises bars from the first close to the last.
func PerformanceOf(symbol string, bars []model.OHLCV) (model.Performance, error) {
	if len(bars) == 0 {
		return model.Performance{}, ErrNoData
	}
	pr, err := calculator.PeriodRange(bars)
	if err != nil {
		return model.Performance{}, err
	}
	start := bars[0].Close
	current := bars[len(bars)-1].Close
	return model.Performance{
		Symbol:        symbol,
		Name:          symbol,
		Start:         start,
		Current:       current,
		Change:        current - start,
		PercentChange: calculator.PercentChange(start, current),
		High:          pr.High,
		Low:           pr.Low,
		AvgVolume:     pr.AvgVolume,
		LastVolume:    bars[len(bars)-1].Volume,
	}, nil
}

// Rank splits performances into the n best and n worst by percent change.
// Both slices are ordered from the extreme inward.
func Rank(perfs []model.Performance, n int) (top, bottom []model.Performance) {
	sorted := make([]model.Performance, len(perfs))
	copy(sorted, perfs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PercentChange > sorted[j].PercentChange
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	top = sorted[:n]
	bottom = make([]model.Performance, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		bottom = append(bottom, sorted[i])
	}
	return top, bottom
}
