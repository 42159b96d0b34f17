package news

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockTracker/internal/model"
)

// alpacaNewsCap bounds pagination; the API pages newest first.
const alpacaNewsCap = 200

// AlpacaProvider reads news from the Alpaca market-data API.
type AlpacaProvider struct {
	client *marketdata.Client
}

// NewAlpacaProvider creates a provider; missing credentials yield ErrMissingAPIKey.
func NewAlpacaProvider(apiKey, apiSecret, dataURL string) (*AlpacaProvider, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("alpaca news: %w", ErrMissingAPIKey)
	}
	opts := marketdata.ClientOpts{APIKey: apiKey, APISecret: apiSecret}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaProvider{client: marketdata.NewClient(opts)}, nil
}

func (p *AlpacaProvider) Name() string { return "alpaca" }

func (p *AlpacaProvider) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]model.NewsItem, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	res, err := p.client.GetNews(marketdata.GetNewsRequest{
		Symbols:    []string{symbol},
		Start:      from,
		End:        to,
		TotalLimit: alpacaNewsCap,
		Sort:       marketdata.SortDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca news %s: %w", symbol, err)
	}
	items := make([]model.NewsItem, 0, len(res))
	for _, a := range res {
		items = append(items, model.NewsItem{
			Symbol:   symbol,
			Headline: a.Headline,
			Source:   a.Source,
			URL:      a.URL,
			Summary:  a.Summary,
			Time:     a.CreatedAt.UTC(),
		})
	}
	return items, nil
}
