package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/archive"
	"StockTracker/internal/collector"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
	"StockTracker/internal/recorder"
)

func newTestScheduler(t *testing.T, missing map[string]bool) (*Scheduler, *recorder.SQLRecorder) {
	t.Helper()
	dir := t.TempDir()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })

	col := collector.NewCollector(&collector.MockFetcher{Missing: missing})
	s := NewScheduler(context.Background(), col, rec, archive.NewParquetArchive(filepath.Join(dir, "bars")),
		portfolio.NewSessions("USD"), []string{"AAA", "BBB", "BAD"}, model.Period1mo, time.Millisecond)
	return s, rec
}

func TestSnapshotTask_RecordsUniverse(t *testing.T) {
	s, rec := newTestScheduler(t, map[string]bool{"BAD": true})
	s.RunSnapshotNow()

	hist, err := rec.TickerHistory(context.Background(), "AAA", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, model.Period1mo, hist[0].Period)

	top, err := rec.TopPerformers(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestDailyPerformersTask(t *testing.T) {
	s, rec := newTestScheduler(t, nil)
	s.dailyPerformersTask()

	rows, err := rec.DailyPerformers(context.Background(), 3)
	require.NoError(t, err)
	// three tickers, each ranked on both sides
	require.Len(t, rows, 6)
	assert.Equal(t, time.Now().Format("2006-01-02"), rows[0].Date)
}

func TestArchiveTask_WritesBars(t *testing.T) {
	s, _ := newTestScheduler(t, map[string]bool{"BAD": true})
	s.archiveTask()

	syms, err := s.Archive.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, syms)

	bars, err := s.Archive.ReadBars(context.Background(), "AAA", time.Now().AddDate(0, -2, 0), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, bars)
}

func TestSweepTask(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	s.Sessions.Ensure("")
	require.Equal(t, 1, s.Sessions.Len())
	time.Sleep(5 * time.Millisecond)
	s.sweepTask()
	assert.Equal(t, 0, s.Sessions.Len())
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	require.NoError(t, s.RegisterAll("0 */30 * * * *", "0 0 22 * * 1-5", "0 30 22 * * 1-5", "0 */10 * * * *"))
	assert.Len(t, s.Cron.Entries(), 4)

	s2, _ := newTestScheduler(t, nil)
	s2.Archive = nil
	require.NoError(t, s2.RegisterAll("@every 1m", "@daily", "bogus", "@every 1m"))
	assert.Len(t, s2.Cron.Entries(), 3)

	s3, _ := newTestScheduler(t, nil)
	assert.Error(t, s3.RegisterAll("not a cron", "@daily", "@daily", "@daily"))
}
