package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockTracker/internal/archive"
	"StockTracker/internal/collector"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
	"StockTracker/internal/recorder"

	"github.com/robfig/cron/v3"
)

// performersPerSide is how many tickers each half of a daily ranking keeps.
const performersPerSide = 10

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Archive   *archive.ParquetArchive // nil disables the archive job
	Sessions  *portfolio.Sessions
	Universe  []string
	Period    model.Period
	MaxIdle   time.Duration
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, arc *archive.ParquetArchive, sessions *portfolio.Sessions, universe []string, period model.Period, maxIdle time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Archive:   arc,
		Sessions:  sessions,
		Universe:  universe,
		Period:    period,
		MaxIdle:   maxIdle,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the snapshot, daily performers, archive and session
// sweep tasks.
func (s *Scheduler) RegisterAll(snapshotCron, dailyCron, archiveCron, sweepCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyPerformersTask); err != nil {
		return fmt.Errorf("register daily performers task: %w", err)
	}
	if s.Archive != nil {
		if _, err := s.Cron.AddFunc(archiveCron, s.archiveTask); err != nil {
			return fmt.Errorf("register archive task: %w", err)
		}
	}
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register session sweep: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (for RUN_ON_START).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	log.Printf("[INFO] running performance snapshot (%s, %d tickers)", s.Period, len(s.Universe))
	perfs, err := s.Collector.Performance(s.Ctx, s.Universe, s.Period)
	if err != nil {
		log.Printf("[ERROR] snapshot collect: %v", err)
		return
	}
	if err := s.Recorder.RecordPerformance(s.Ctx, s.Period, perfs); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
		return
	}
	log.Printf("[INFO] snapshot recorded: %d tickers", len(perfs))
}

func (s *Scheduler) dailyPerformersTask() {
	log.Println("[INFO] running daily performers")
	perfs, err := s.Collector.DailyPerformance(s.Ctx, s.Universe)
	if err != nil {
		log.Printf("[ERROR] daily performers collect: %v", err)
		return
	}
	top, bottom := collector.Rank(perfs, performersPerSide)
	date := s.now().Format("2006-01-02")
	if err := s.Recorder.RecordDailyPerformers(s.Ctx, date, top, bottom); err != nil {
		log.Printf("[ERROR] record daily performers: %v", err)
	}
}

func (s *Scheduler) archiveTask() {
	log.Println("[INFO] running bar archive")
	written := 0
	for _, sym := range s.Universe {
		if s.Ctx.Err() != nil {
			return
		}
		bars, err := s.Collector.Fetcher.FetchBars(s.Ctx, sym, model.Period1mo, model.IntervalDay)
		if err != nil {
			log.Printf("[WARN] archive %s: %v", sym, err)
			continue
		}
		if err := s.Archive.WriteBars(s.Ctx, sym, bars); err != nil {
			log.Printf("[ERROR] archive %s: %v", sym, err)
			continue
		}
		written++
	}
	log.Printf("[INFO] archived %d/%d tickers", written, len(s.Universe))
}

func (s *Scheduler) sweepTask() {
	if n := s.Sessions.Sweep(s.MaxIdle); n > 0 {
		log.Printf("[INFO] swept %d idle portfolio sessions", n)
	}
}
