package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StockTracker/internal/archive"
	"StockTracker/internal/collector"
	"StockTracker/internal/config"
	"StockTracker/internal/dashboard"
	"StockTracker/internal/model"
	"StockTracker/internal/news"
	"StockTracker/internal/portfolio"
	"StockTracker/internal/recorder"
	"StockTracker/internal/scheduler"
	"StockTracker/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockTracker starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	warnings := cfg.Warnings()
	for _, w := range warnings {
		log.Printf("[WARN] %s", w)
	}

	// Init fetcher
	fetcher := newFetcher(cfg)
	if ttl := cfg.CacheTTLDuration(); ttl > 0 {
		cached, err := collector.NewCachedFetcher(fetcher, ttl)
		if err != nil {
			log.Printf("[WARN] fetch cache disabled: %v", err)
		} else {
			fetcher = cached
		}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	universe := cfg.Market.Universe
	if len(universe) == 0 {
		universe = collector.DefaultUniverse
	}

	// Init recorder
	rec := newRecorder(cfg)
	defer rec.Close()

	var arc *archive.ParquetArchive
	if cfg.Archive.Dir != "" {
		arc = archive.NewParquetArchive(cfg.Archive.Dir)
	}
	sessions := portfolio.NewSessions(cfg.Portfolio.Currency)

	dash := dashboard.New(col, newNewsService(cfg), rec, universe)
	if cfg.News.Limit > 0 {
		dash.NewsLimit = cfg.News.Limit
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, rec, arc, sessions, universe,
		model.Period(cfg.Schedule.SnapshotPeriod), cfg.SessionMaxIdleDuration())
	if err := sched.RegisterAll(cfg.Schedule.SnapshotCron, cfg.Schedule.DailyPerformersCron,
		cfg.Schedule.ArchiveCron, cfg.Schedule.SessionSweepCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, recording a snapshot now")
		go sched.RunSnapshotNow()
	}

	srv, err := web.NewServer(dash, sessions, warnings)
	if err != nil {
		log.Fatalf("[FATAL] init web server: %v", err)
	}
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] StockTracker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] StockTracker stopped")
}

// newFetcher picks the market data provider. A provider without credentials
// still starts; its pages report the missing key.
func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Market.Provider {
	case "polygon":
		f, err := collector.NewPolygonFetcher(cfg.Market.PolygonAPIKey, cfg.Proxy)
		if err != nil {
			return &collector.Unconfigured{Provider: "polygon", Err: err}
		}
		return f
	case "alpaca":
		f, err := collector.NewAlpacaFetcher(cfg.Market.AlpacaKeyID, cfg.Market.AlpacaSecret,
			cfg.Market.AlpacaDataURL, cfg.Market.AlpacaFeed)
		if err != nil {
			return &collector.Unconfigured{Provider: "alpaca", Err: err}
		}
		return f
	case "mock":
		return &collector.MockFetcher{}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

func newNewsService(cfg *config.Config) *news.Service {
	var provider news.Provider
	switch cfg.News.Provider {
	case "finnhub":
		p, err := news.NewFinnhubProvider(cfg.News.FinnhubAPIKey, cfg.Proxy)
		if err != nil {
			log.Printf("[WARN] news disabled: %v", err)
			return nil
		}
		provider = p
	case "alpaca":
		p, err := news.NewAlpacaProvider(cfg.Market.AlpacaKeyID, cfg.Market.AlpacaSecret, cfg.Market.AlpacaDataURL)
		if err != nil {
			log.Printf("[WARN] news disabled: %v", err)
			return nil
		}
		provider = p
	default:
		provider = news.NewGoogleRSSProvider(cfg.Proxy)
	}

	svc := news.NewService(provider, nil)
	switch cfg.News.Sentiment {
	case "off":
		svc.Scorer = nil
	case "openai":
		s, err := news.NewOpenAIScorer(cfg.News.OpenAIAPIKey, cfg.News.OpenAIModel, cfg.News.OpenAIBaseURL, nil)
		if err != nil {
			log.Printf("[WARN] openai sentiment unavailable, using lexicon: %v", err)
		} else {
			svc.Scorer = s
		}
	}
	log.Printf("[INFO] news source: %s", provider.Name())
	return svc
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	switch cfg.Database.Driver {
	case "postgres":
		r, err := recorder.NewPostgresRecorder(cfg.Database.DSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return r
	case "none":
		return recorder.NewNoopRecorder()
	default:
		if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Printf("[WARN] create %s: %v", dir, err)
			}
		}
		r, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return r
	}
}
