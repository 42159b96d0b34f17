package recorder

import (
	"context"

	"StockTracker/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPerformance(context.Context, model.Period, []model.Performance) error {
	return nil
}
func (n *NoopRecorder) RecordDailyPerformers(context.Context, string, []model.Performance, []model.Performance) error {
	return nil
}
func (n *NoopRecorder) TopPerformers(context.Context, int, int) ([]model.AggregatedPerformer, error) {
	return nil, nil
}
func (n *NoopRecorder) BottomPerformers(context.Context, int, int) ([]model.AggregatedPerformer, error) {
	return nil, nil
}
func (n *NoopRecorder) DailyPerformers(context.Context, int) ([]model.DailyPerformer, error) {
	return nil, nil
}
func (n *NoopRecorder) TickerHistory(context.Context, string, int) ([]model.PerformanceRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
