package dashboard

import (
	"context"
	"log"

	"StockTracker/internal/calculator"
	"StockTracker/internal/collector"
	"StockTracker/internal/model"
)

// DefaultOverviewPeriod is the overview's initial lookback.
const DefaultOverviewPeriod = model.Period3mo

// overviewRankSize is how many tickers each performer table lists.
const overviewRankSize = 10

// IndexRow is one market index on the overview.
type IndexRow struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Current       float64  `json:"current"`
	Change        float64  `json:"change"`
	PercentChange float64  `json:"percent_change"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Volatility    *float64 `json:"volatility"` // std of per-bar returns, percent
}

// OverviewPage is the market overview.
type OverviewPage struct {
	Status
	Period   model.Period        `json:"period"`
	Interval model.Interval      `json:"interval"`
	Indices  []IndexRow          `json:"indices"`
	Top      []model.Performance `json:"top"`
	Bottom   []model.Performance `json:"bottom"`
	Scanned  int                 `json:"scanned"`
}

// Overview fetches the indices at interval and ranks the universe over period.
// Rankings always use daily bars.
func (d *Dashboard) Overview(ctx context.Context, period model.Period, interval model.Interval) *OverviewPage {
	page := &OverviewPage{Status: okStatus(), Period: period, Interval: interval}

	var failed int
	for _, idx := range collector.Indices {
		bars, err := d.Collector.Fetcher.FetchBars(ctx, idx.Symbol, period, interval)
		if err == nil && len(bars) == 0 {
			err = collector.ErrNoData
		}
		if err != nil {
			log.Printf("[WARN] index %s: %v", idx.Symbol, err)
			failed++
			continue
		}
		page.Indices = append(page.Indices, indexRow(idx, bars))
	}
	if failed > 0 {
		page.Note("%d of %d market indices are unavailable from the %s provider.", failed, len(collector.Indices), d.Collector.Fetcher.Name())
	}

	perfs, err := d.Collector.Performance(ctx, d.Universe, period)
	if err != nil {
		page.fail("overview", err)
		return page
	}
	page.Scanned = len(perfs)
	if skipped := len(d.Universe) - len(perfs); skipped > 0 {
		page.Note("%d of %d tracked tickers returned no data and were skipped.", skipped, len(d.Universe))
	}
	page.Top, page.Bottom = collector.Rank(perfs, overviewRankSize)
	return page
}

func indexRow(idx collector.Index, bars []model.OHLCV) IndexRow {
	pr, _ := calculator.PeriodRange(bars)
	closes := model.Closes(bars)
	first, last := closes[0], closes[len(closes)-1]
	return IndexRow{
		Symbol:        idx.Symbol,
		Name:          idx.Name,
		Current:       last,
		Change:        last - first,
		PercentChange: calculator.PercentChange(first, last),
		High:          pr.High,
		Low:           pr.Low,
		Volatility:    calculator.Finite(calculator.Volatility(closes)),
	}
}
