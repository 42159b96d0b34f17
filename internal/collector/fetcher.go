package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockTracker/internal/model"
)

var (
	// ErrNoData means the provider knows nothing about the symbol or range.
	ErrNoData = errors.New("no data for symbol")
	// ErrMissingAPIKey means a keyed provider was selected without credentials.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error)
	FetchRange(ctx context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}

// Unconfigured stands in for a keyed provider whose credentials are missing.
// Every call fails with Err so pages can show a configuration warning.
type Unconfigured struct {
	Provider string
	Err      error
}

func (u *Unconfigured) Name() string { return u.Provider }

func (u *Unconfigured) FetchBars(context.Context, string, model.Period, model.Interval) ([]model.OHLCV, error) {
	return nil, u.Err
}

func (u *Unconfigured) FetchRange(context.Context, string, time.Time, time.Time, model.Interval) ([]model.OHLCV, error) {
	return nil, u.Err
}

func (u *Unconfigured) FetchQuote(context.Context, string) (*model.Quote, error) {
	return nil, u.Err
}

// newHTTPClient builds the outbound client, routed through proxyURL when set.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// quoteFromDaily derives a quote from a year of daily bars for providers
// without a snapshot endpoint.
func quoteFromDaily(symbol string, bars []model.OHLCV) (*model.Quote, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	last := bars[len(bars)-1]
	q := &model.Quote{
		Symbol:  symbol,
		Price:   last.Close,
		DayHigh: last.High,
		DayLow:  last.Low,
		Volume:  last.Volume,
		Time:    last.Time,
		High52w: last.High,
		Low52w:  last.Low,
	}
	if len(bars) > 1 {
		q.PreviousClose = bars[len(bars)-2].Close
	}
	start := len(bars) - 252
	if start < 0 {
		start = 0
	}
	for _, b := range bars[start:] {
		if b.High > q.High52w {
			q.High52w = b.High
		}
		if b.Low < q.Low52w {
			q.Low52w = b.Low
		}
	}
	return q, nil
}
