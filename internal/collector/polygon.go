package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"StockTracker/internal/model"
)

// PolygonFetcher implements Fetcher on Polygon.io aggregates.
type PolygonFetcher struct {
	rest *polygonrest.Client
	now  func() time.Time
}

// NewPolygonFetcher creates a fetcher; an empty key yields ErrMissingAPIKey.
func NewPolygonFetcher(apiKey, proxyURL string) (*PolygonFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon: %w", ErrMissingAPIKey)
	}
	return &PolygonFetcher{
		rest: polygonrest.NewWithClient(apiKey, newHTTPClient(proxyURL, 30*time.Second)),
		now:  time.Now,
	}, nil
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func polygonTimespan(interval model.Interval) rmodels.Timespan {
	switch interval {
	case model.IntervalWeek:
		return rmodels.Week
	case model.IntervalMonth:
		return rmodels.Month
	default:
		return rmodels.Day
	}
}

func (f *PolygonFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	now := f.now()
	return f.FetchRange(ctx, symbol, period.Start(now), now, interval)
}

func (f *PolygonFetcher) FetchRange(ctx context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error) {
	params := &rmodels.ListAggsParams{
		Ticker:     symbol,
		Timespan:   polygonTimespan(interval),
		Multiplier: 1,
		From:       rmodels.Millis(from),
		To:         rmodels.Millis(to),
	}
	lim := 50000
	asc := rmodels.Asc
	adj := true
	params.Limit = &lim
	params.Order = &asc
	params.Adjusted = &adj

	iter := f.rest.ListAggs(ctx, params)
	var bars []model.OHLCV
	for iter.Next() {
		a := iter.Item()
		bars = append(bars, model.OHLCV{
			Time:   time.Time(a.Timestamp).UTC(),
			Open:   a.Open,
			High:   a.High,
			Low:    a.Low,
			Close:  a.Close,
			Volume: a.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("polygon %s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// FetchQuote derives the quote from a year of daily aggregates. Name,
// currency and market cap come from ticker details when Polygon has them.
func (f *PolygonFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	bars, err := f.FetchBars(ctx, symbol, model.Period1y, model.IntervalDay)
	if err != nil {
		return nil, err
	}
	q, err := quoteFromDaily(symbol, bars)
	if err != nil {
		return nil, err
	}
	res, err := f.rest.GetTickerDetails(ctx, &rmodels.GetTickerDetailsParams{Ticker: symbol})
	if err != nil {
		log.Printf("[WARN] polygon ticker details %s: %v", symbol, err)
		return q, nil
	}
	q.ShortName = res.Results.Name
	q.Currency = strings.ToUpper(res.Results.CurrencyName)
	q.MarketCap = res.Results.MarketCap
	return q, nil
}
