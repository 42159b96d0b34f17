package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps a developer's .env and exported keys out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{
		"LISTEN_ADDR", "MARKET_PROVIDER", "POLYGON_API_KEY", "APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
		"APCA_DATA_URL", "CACHE_TTL", "NEWS_PROVIDER", "FINNHUB_API_KEY", "SENTIMENT", "OPENAI_API_KEY",
		"OPENAI_MODEL", "CRON_SNAPSHOT", "DATABASE_DRIVER", "SQLITE_PATH", "DATABASE_DSN", "ARCHIVE_DIR",
		"HTTPS_PROXY", "UNIVERSE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
	assert.Equal(t, time.Hour, cfg.CacheTTLDuration())
	assert.Equal(t, "google", cfg.News.Provider)
	assert.Equal(t, "0 */30 * * * *", cfg.Schedule.SnapshotCron)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxIdleDuration())
	assert.Empty(t, cfg.Warnings())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:9000"
market:
  provider: polygon
  universe: [AAPL, MSFT]
news:
  provider: finnhub
  limit: 5
database:
  driver: none
`), 0o644))

	t.Setenv("MARKET_PROVIDER", "alpaca")
	t.Setenv("UNIVERSE", "nvda, amd ,")
	t.Setenv("CACHE_TTL", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "alpaca", cfg.Market.Provider)
	assert.Equal(t, []string{"NVDA", "AMD"}, cfg.Market.Universe)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTLDuration())
	assert.Equal(t, 5, cfg.News.Limit)
	assert.Equal(t, "none", cfg.Database.Driver)

	w := cfg.Warnings()
	assert.Len(t, w, 2)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("STOCKTRACKER_TEST_ONLY=1\n"), 0o644))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { os.Unsetenv("STOCKTRACKER_TEST_ONLY") })

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "1", os.Getenv("STOCKTRACKER_TEST_ONLY"))
}

func TestValidate_Errors(t *testing.T) {
	isolate(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Market.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Schedule.SnapshotCron = "every now and then"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Addr = "8080"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())
	cfg.Database.DSN = "postgres://localhost/stocktracker"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Market.CacheTTL = "soon"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Schedule.SnapshotPeriod = "fortnight"
	assert.Error(t, cfg.Validate())
}
