package recorder

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS performance_history (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at    INTEGER NOT NULL,
		period         TEXT NOT NULL,
		symbol         TEXT NOT NULL,
		price          REAL,
		percent_change REAL,
		volume         REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_perf_ts ON performance_history(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_perf_symbol ON performance_history(symbol)`,

	`CREATE TABLE IF NOT EXISTS daily_performers (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		date           TEXT NOT NULL,
		kind           TEXT NOT NULL,
		symbol         TEXT NOT NULL,
		price          REAL,
		percent_change REAL,
		volume         REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_date ON daily_performers(date)`,
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so page reads do not block the refresh jobs' writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := newSQLRecorder(db, dialectSQLite)
	if err := r.migrate(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}
