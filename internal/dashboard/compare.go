package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"StockTracker/internal/collector"
	"StockTracker/internal/comparison"
	"StockTracker/internal/model"
)

// DefaultComparePeriod is the comparison page's initial lookback.
const DefaultComparePeriod = model.Period6mo

// maxCompareSymbols bounds one comparison request.
const maxCompareSymbols = 10

// DefaultCompareSymbols are preselected on the comparison page.
var DefaultCompareSymbols = []string{"RELIANCE.BO", "TCS.BO"}

// ComparisonPage compares several tickers over one period.
type ComparisonPage struct {
	Status
	Symbols []string          `json:"symbols"`
	Period  model.Period      `json:"period"`
	Result  comparison.Result `json:"result"`
}

// Comparison fetches each symbol and aligns them. Tickers without data are
// listed as missing; the page fails only when none can be loaded.
func (d *Dashboard) Comparison(ctx context.Context, symbols []string, period model.Period) *ComparisonPage {
	page := &ComparisonPage{Status: okStatus(), Period: period, Symbols: uniqueSymbols(symbols)}
	if len(page.Symbols) > maxCompareSymbols {
		page.Note("Only the first %d tickers are compared.", maxCompareSymbols)
		page.Symbols = page.Symbols[:maxCompareSymbols]
	}
	if len(page.Symbols) == 0 {
		page.Note("Select at least one ticker to compare.")
		return page
	}

	var secs []*model.Security
	var missing []string
	var firstErr error
	for _, sym := range page.Symbols {
		sec, err := d.Collector.Security(ctx, sym, period, model.IntervalDay)
		if err != nil {
			log.Printf("[WARN] compare %s: %v", sym, err)
			if errors.Is(err, collector.ErrNoData) {
				missing = append(missing, sym)
			} else if firstErr == nil {
				firstErr = err
			}
			continue
		}
		secs = append(secs, sec)
	}
	if len(secs) == 0 {
		if firstErr == nil {
			firstErr = fmt.Errorf("compare %s: %w", strings.Join(page.Symbols, ","), collector.ErrNoData)
		}
		page.fail("compare", firstErr)
		return page
	}
	if firstErr != nil {
		page.Note("Some tickers failed to load: %v", firstErr)
	}

	page.Result = comparison.Compare(secs)
	page.Result.Missing = append(missing, page.Result.Missing...)
	if len(page.Result.Missing) > 0 {
		page.Note("No data for %s.", strings.Join(page.Result.Missing, ", "))
	}
	if len(secs) > 1 && len(page.Result.Times) == 0 {
		page.Note("The selected tickers share no trading days in this period.")
	}
	return page
}

func uniqueSymbols(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, raw := range in {
		for _, s := range strings.Split(raw, ",") {
			s = collector.NormalizeSymbol(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
