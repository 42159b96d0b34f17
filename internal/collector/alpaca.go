package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockTracker/internal/model"
)

// AlpacaFetcher implements Fetcher on the Alpaca market-data API. Only daily
// bars are requested; weekly and monthly bars are aggregated locally.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   string
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher; missing credentials yield ErrMissingAPIKey.
// feed is "iex" (free) or "sip"; empty defaults to iex.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL, feed string) (*AlpacaFetcher, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("alpaca: %w", ErrMissingAPIKey)
	}
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(opts),
		feed:   feed,
		now:    time.Now,
	}, nil
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	now := f.now()
	return f.FetchRange(ctx, symbol, period.Start(now), now, interval)
}

func (f *AlpacaFetcher) FetchRange(ctx context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	alpacaBars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     from,
		End:       to,
		Feed:      marketdata.Feed(f.feed),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	if len(alpacaBars) == 0 {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNoData)
	}
	daily := make([]model.OHLCV, len(alpacaBars))
	for i, ab := range alpacaBars {
		daily[i] = model.OHLCV{
			Time:   ab.Timestamp.UTC(),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: float64(ab.Volume),
		}
	}
	return resample(daily, interval), nil
}

// FetchQuote derives the quote from a year of daily bars.
func (f *AlpacaFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	bars, err := f.FetchBars(ctx, symbol, model.Period1y, model.IntervalDay)
	if err != nil {
		return nil, err
	}
	return quoteFromDaily(symbol, bars)
}
