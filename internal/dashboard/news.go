package dashboard

import (
	"context"
	"fmt"

	"StockTracker/internal/collector"
	"StockTracker/internal/model"
	"StockTracker/internal/news"
)

// NewsPage lists recent headlines for one ticker.
type NewsPage struct {
	Status
	Symbol         string           `json:"symbol"`
	Provider       string           `json:"provider,omitempty"`
	Items          []model.NewsItem `json:"items"`
	Scored         bool             `json:"scored"`
	Sentiment      *float64         `json:"sentiment,omitempty"`
	SentimentLabel string           `json:"sentiment_label,omitempty"`
}

// News searches headlines for symbol, scoring them when score is set.
func (d *Dashboard) News(ctx context.Context, symbol string, limit int, score bool) *NewsPage {
	symbol = collector.NormalizeSymbol(symbol)
	page := &NewsPage{Status: okStatus(), Symbol: symbol}
	if limit <= 0 {
		limit = d.NewsLimit
	}
	if d.NewsSvc == nil {
		page.fail("news", fmt.Errorf("news service: %w", collector.ErrMissingAPIKey))
		return page
	}
	page.Scored = score && d.NewsSvc.Scorer != nil
	if d.NewsSvc.Provider != nil {
		page.Provider = d.NewsSvc.Provider.Name()
	}
	if symbol == "" {
		page.Note("Enter a ticker to search for news.")
		return page
	}

	items, err := d.NewsSvc.Search(ctx, symbol, limit, page.Scored)
	if err != nil {
		page.fail("news", err)
		return page
	}
	if len(items) == 0 {
		page.fail("news", fmt.Errorf("news for %s: %w", symbol, collector.ErrNoData))
		return page
	}
	page.Items = items
	if avg, ok := news.Average(items); ok {
		page.Sentiment = &avg
		page.SentimentLabel = news.Label(avg)
	}
	return page
}
