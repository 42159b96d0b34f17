package dashboard

import (
	"context"

	"StockTracker/internal/collector"
	"StockTracker/internal/model"
)

const (
	defaultHistoryDays  = 7
	maxHistoryDays      = 30
	defaultHistoryLimit = 10
	minHistoryLimit     = 5
	maxHistoryLimit     = 20
)

// HistoryPage shows performers aggregated from recorded snapshots.
type HistoryPage struct {
	Status
	Days          int                         `json:"days"`
	Limit         int                         `json:"limit"`
	Top           []model.AggregatedPerformer `json:"top"`
	Bottom        []model.AggregatedPerformer `json:"bottom"`
	Daily         []model.DailyPerformer      `json:"daily,omitempty"`
	Ticker        string                      `json:"ticker,omitempty"`
	TickerHistory []model.PerformanceRecord   `json:"ticker_history,omitempty"`
}

func clamp(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// History reads the last days of recorded performance. ticker, when set,
// adds that ticker's stored rows.
func (d *Dashboard) History(ctx context.Context, days, limit int, ticker string) *HistoryPage {
	page := &HistoryPage{
		Status: okStatus(),
		Days:   clamp(days, 1, maxHistoryDays, defaultHistoryDays),
		Limit:  clamp(limit, minHistoryLimit, maxHistoryLimit, defaultHistoryLimit),
		Ticker: collector.NormalizeSymbol(ticker),
	}

	var err error
	if page.Top, err = d.Recorder.TopPerformers(ctx, page.Days, page.Limit); err != nil {
		page.fail("history", err)
		return page
	}
	if page.Bottom, err = d.Recorder.BottomPerformers(ctx, page.Days, page.Limit); err != nil {
		page.fail("history", err)
		return page
	}
	if page.Daily, err = d.Recorder.DailyPerformers(ctx, page.Days); err != nil {
		page.fail("history", err)
		return page
	}
	if page.Ticker != "" {
		if page.TickerHistory, err = d.Recorder.TickerHistory(ctx, page.Ticker, 100); err != nil {
			page.fail("history", err)
			return page
		}
	}

	if len(page.Top) == 0 && len(page.Bottom) == 0 && len(page.Daily) == 0 {
		page.State = StateNoData
		page.Message = "No performance history recorded in this window yet. Snapshots are taken by the scheduler."
	}
	return page
}
