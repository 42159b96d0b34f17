package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS performance_history (
		id             BIGSERIAL PRIMARY KEY,
		recorded_at    BIGINT NOT NULL,
		period         TEXT NOT NULL,
		symbol         TEXT NOT NULL,
		price          DOUBLE PRECISION,
		percent_change DOUBLE PRECISION,
		volume         DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_perf_ts ON performance_history(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_perf_symbol ON performance_history(symbol)`,

	`CREATE TABLE IF NOT EXISTS daily_performers (
		id             BIGSERIAL PRIMARY KEY,
		date           TEXT NOT NULL,
		kind           TEXT NOT NULL,
		symbol         TEXT NOT NULL,
		price          DOUBLE PRECISION,
		percent_change DOUBLE PRECISION,
		volume         DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_date ON daily_performers(date)`,
}

// NewPostgresRecorder connects through the pgx database/sql driver and runs migrations.
func NewPostgresRecorder(dsn string) (*SQLRecorder, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := newSQLRecorder(db, dialectPostgres)
	if err := r.migrate(postgresMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder opened")
	return r, nil
}
