package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"StockTracker/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Market struct {
		Provider      string   `yaml:"provider"` // yahoo | polygon | alpaca | mock
		PolygonAPIKey string   `yaml:"polygon_api_key"`
		AlpacaKeyID   string   `yaml:"alpaca_key_id"`
		AlpacaSecret  string   `yaml:"alpaca_secret_key"`
		AlpacaDataURL string   `yaml:"alpaca_data_url"`
		AlpacaFeed    string   `yaml:"alpaca_feed"`
		CacheTTL      string   `yaml:"cache_ttl"`
		Universe      []string `yaml:"universe"`
	} `yaml:"market"`
	News struct {
		Provider      string `yaml:"provider"` // google | finnhub | alpaca
		FinnhubAPIKey string `yaml:"finnhub_api_key"`
		Sentiment     string `yaml:"sentiment"` // lexicon | openai | off
		OpenAIAPIKey  string `yaml:"openai_api_key"`
		OpenAIModel   string `yaml:"openai_model"`
		OpenAIBaseURL string `yaml:"openai_base_url"`
		Limit         int    `yaml:"limit"`
	} `yaml:"news"`
	Schedule struct {
		SnapshotCron        string `yaml:"snapshot_cron"`
		SnapshotPeriod      string `yaml:"snapshot_period"`
		DailyPerformersCron string `yaml:"daily_performers_cron"`
		ArchiveCron         string `yaml:"archive_cron"`
		SessionSweepCron    string `yaml:"session_sweep_cron"`
		SessionMaxIdle      string `yaml:"session_max_idle"`
	} `yaml:"schedule"`
	Database struct {
		Driver     string `yaml:"driver"` // sqlite | postgres | none
		SQLitePath string `yaml:"sqlite_path"`
		DSN        string `yaml:"dsn"`
	} `yaml:"database"`
	Archive struct {
		Dir string `yaml:"dir"`
	} `yaml:"archive"`
	Portfolio struct {
		Currency string `yaml:"currency"`
	} `yaml:"portfolio"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	envFile := ".env"
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	override := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	override("LISTEN_ADDR", &cfg.Server.Addr)
	override("MARKET_PROVIDER", &cfg.Market.Provider)
	override("POLYGON_API_KEY", &cfg.Market.PolygonAPIKey)
	override("APCA_API_KEY_ID", &cfg.Market.AlpacaKeyID)
	override("APCA_API_SECRET_KEY", &cfg.Market.AlpacaSecret)
	override("APCA_DATA_URL", &cfg.Market.AlpacaDataURL)
	override("CACHE_TTL", &cfg.Market.CacheTTL)
	override("NEWS_PROVIDER", &cfg.News.Provider)
	override("FINNHUB_API_KEY", &cfg.News.FinnhubAPIKey)
	override("SENTIMENT", &cfg.News.Sentiment)
	override("OPENAI_API_KEY", &cfg.News.OpenAIAPIKey)
	override("OPENAI_MODEL", &cfg.News.OpenAIModel)
	override("CRON_SNAPSHOT", &cfg.Schedule.SnapshotCron)
	override("DATABASE_DRIVER", &cfg.Database.Driver)
	override("SQLITE_PATH", &cfg.Database.SQLitePath)
	override("DATABASE_DSN", &cfg.Database.DSN)
	override("ARCHIVE_DIR", &cfg.Archive.Dir)
	override("HTTPS_PROXY", &cfg.Proxy)
	if v := os.Getenv("UNIVERSE"); v != "" {
		cfg.Market.Universe = splitList(v)
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Market.Provider == "" {
		cfg.Market.Provider = "yahoo"
	}
	if cfg.Market.CacheTTL == "" {
		cfg.Market.CacheTTL = "1h"
	}
	if cfg.News.Provider == "" {
		cfg.News.Provider = "google"
	}
	if cfg.News.Sentiment == "" {
		cfg.News.Sentiment = "lexicon"
	}
	if cfg.News.Limit == 0 {
		cfg.News.Limit = 20
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 */30 * * * *"
	}
	if cfg.Schedule.SnapshotPeriod == "" {
		cfg.Schedule.SnapshotPeriod = "1mo"
	}
	if cfg.Schedule.DailyPerformersCron == "" {
		cfg.Schedule.DailyPerformersCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.ArchiveCron == "" {
		cfg.Schedule.ArchiveCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.SessionSweepCron == "" {
		cfg.Schedule.SessionSweepCron = "0 */10 * * * *"
	}
	if cfg.Schedule.SessionMaxIdle == "" {
		cfg.Schedule.SessionMaxIdle = "2h"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocktracker.db"
	}
	if cfg.Portfolio.Currency == "" {
		cfg.Portfolio.Currency = "USD"
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate rejects settings the service cannot start with. Missing API keys
// are not errors; see Warnings.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
	}
	switch c.Market.Provider {
	case "yahoo", "polygon", "alpaca", "mock":
	default:
		return fmt.Errorf("market.provider %q: want yahoo, polygon, alpaca or mock", c.Market.Provider)
	}
	switch c.News.Provider {
	case "google", "finnhub", "alpaca":
	default:
		return fmt.Errorf("news.provider %q: want google, finnhub or alpaca", c.News.Provider)
	}
	switch c.News.Sentiment {
	case "lexicon", "openai", "off":
	default:
		return fmt.Errorf("news.sentiment %q: want lexicon, openai or off", c.News.Sentiment)
	}
	switch c.Database.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver %q: want sqlite, postgres or none", c.Database.Driver)
	}
	if d, err := time.ParseDuration(c.Market.CacheTTL); err != nil || d < 0 {
		return fmt.Errorf("market.cache_ttl %q: must be a non-negative duration", c.Market.CacheTTL)
	}
	if d, err := time.ParseDuration(c.Schedule.SessionMaxIdle); err != nil || d <= 0 {
		return fmt.Errorf("schedule.session_max_idle %q: must be a positive duration", c.Schedule.SessionMaxIdle)
	}
	if _, err := model.ParsePeriod(c.Schedule.SnapshotPeriod, ""); err != nil || c.Schedule.SnapshotPeriod == "" {
		return fmt.Errorf("schedule.snapshot_period %q: want one of %v", c.Schedule.SnapshotPeriod, model.Periods)
	}
	for name, spec := range map[string]string{
		"snapshot_cron":         c.Schedule.SnapshotCron,
		"daily_performers_cron": c.Schedule.DailyPerformersCron,
		"archive_cron":          c.Schedule.ArchiveCron,
		"session_sweep_cron":    c.Schedule.SessionSweepCron,
	} {
		if _, err := cronParser.Parse(spec); err != nil {
			return fmt.Errorf("schedule.%s %q: %w", name, spec, err)
		}
	}
	return nil
}

// Warnings lists configuration gaps that degrade pages instead of stopping
// the service.
func (c *Config) Warnings() []string {
	var w []string
	switch c.Market.Provider {
	case "polygon":
		if c.Market.PolygonAPIKey == "" {
			w = append(w, "POLYGON_API_KEY is not set; market pages will show a configuration warning")
		}
	case "alpaca":
		if c.Market.AlpacaKeyID == "" || c.Market.AlpacaSecret == "" {
			w = append(w, "APCA_API_KEY_ID / APCA_API_SECRET_KEY are not set; market pages will show a configuration warning")
		}
	}
	switch c.News.Provider {
	case "finnhub":
		if c.News.FinnhubAPIKey == "" {
			w = append(w, "FINNHUB_API_KEY is not set; the news page will show a configuration warning")
		}
	case "alpaca":
		if c.Market.AlpacaKeyID == "" || c.Market.AlpacaSecret == "" {
			w = append(w, "APCA_API_KEY_ID / APCA_API_SECRET_KEY are not set; the news page will show a configuration warning")
		}
	}
	if c.News.Sentiment == "openai" && c.News.OpenAIAPIKey == "" {
		w = append(w, "OPENAI_API_KEY is not set; sentiment falls back to the lexicon scorer")
	}
	return w
}

// CacheTTLDuration is the parsed market.cache_ttl.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.Market.CacheTTL)
	return d
}

// SessionMaxIdleDuration is the parsed schedule.session_max_idle.
func (c *Config) SessionMaxIdleDuration() time.Duration {
	d, _ := time.ParseDuration(c.Schedule.SessionMaxIdle)
	return d
}
