package dashboard

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"StockTracker/internal/collector"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
)

// PortfolioPage is the valued portfolio of one session.
type PortfolioPage struct {
	Status
	Valuation model.Valuation `json:"valuation"`
}

// Portfolio prices every holding of p at its latest quote.
func (d *Dashboard) Portfolio(ctx context.Context, p *portfolio.Portfolio) *PortfolioPage {
	page := &PortfolioPage{Status: okStatus()}
	tickers := p.Tickers()
	prices := make(map[string]model.Price, len(tickers))
	var keyErr error
	for _, t := range tickers {
		q, err := d.Collector.Fetcher.FetchQuote(ctx, t)
		if err != nil {
			log.Printf("[WARN] portfolio quote %s: %v", t, err)
			if errors.Is(err, collector.ErrMissingAPIKey) {
				keyErr = err
			}
			continue
		}
		if q.Price > 0 {
			prices[t] = model.Price{Amount: decimal.NewFromFloat(q.Price), Currency: q.Currency}
		}
	}

	page.Valuation = p.Valuate(prices)
	if keyErr != nil {
		page.fail("portfolio", keyErr)
		return page
	}
	if p.Len() == 0 {
		page.Note("No holdings yet. Add a ticker, quantity and cost basis to start tracking.")
	}
	var syms []string
	noted := make(map[string]bool)
	for _, e := range page.Valuation.Unpriced {
		if noted[e.Ticker] {
			continue
		}
		noted[e.Ticker] = true
		if cur, foreign := page.Valuation.Foreign[e.Ticker]; foreign {
			page.Note("%s is quoted in %s, not %s; excluded from totals.", e.Ticker, cur, page.Valuation.Currency)
			continue
		}
		syms = append(syms, e.Ticker)
	}
	if len(syms) > 0 {
		page.Note("No current price for %s; excluded from totals.", strings.Join(syms, ", "))
	}
	return page
}
