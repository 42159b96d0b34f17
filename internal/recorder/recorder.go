package recorder

import (
	"context"

	"StockTracker/internal/model"
)

// Recorder persists performance history for the history page.
type Recorder interface {
	// RecordPerformance replaces the stored snapshot of period with perfs.
	RecordPerformance(ctx context.Context, period model.Period, perfs []model.Performance) error
	// RecordDailyPerformers replaces the ranking stored for date (YYYY-MM-DD).
	RecordDailyPerformers(ctx context.Context, date string, top, bottom []model.Performance) error
	TopPerformers(ctx context.Context, days, limit int) ([]model.AggregatedPerformer, error)
	BottomPerformers(ctx context.Context, days, limit int) ([]model.AggregatedPerformer, error)
	DailyPerformers(ctx context.Context, days int) ([]model.DailyPerformer, error)
	TickerHistory(ctx context.Context, symbol string, limit int) ([]model.PerformanceRecord, error)
	Close() error
}
