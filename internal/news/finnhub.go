package news

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"StockTracker/internal/model"
)

// FinnhubProvider reads company news from Finnhub.
type FinnhubProvider struct {
	client *finnhub.DefaultApiService
}

// NewFinnhubProvider creates a provider; an empty key yields ErrMissingAPIKey.
func NewFinnhubProvider(apiKey, proxyURL string) (*FinnhubProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("finnhub: %w", ErrMissingAPIKey)
	}
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = newHTTPClient(proxyURL)
	return &FinnhubProvider{client: finnhub.NewAPIClient(cfg).DefaultApi}, nil
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

func (p *FinnhubProvider) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]model.NewsItem, error) {
	res, _, err := p.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news %s: %w", symbol, err)
	}
	items := make([]model.NewsItem, 0, len(res))
	for _, n := range res {
		items = append(items, model.NewsItem{
			Symbol:   symbol,
			Headline: n.GetHeadline(),
			Source:   n.GetSource(),
			URL:      n.GetUrl(),
			Summary:  n.GetSummary(),
			Time:     time.Unix(n.GetDatetime(), 0).UTC(),
		})
	}
	return items, nil
}
