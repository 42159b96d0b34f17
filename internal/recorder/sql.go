package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"StockTracker/internal/model"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLRecorder persists history to SQLite or Postgres. Writes are serialised.
type SQLRecorder struct {
	db      *sql.DB
	dialect dialect
	mu      sync.Mutex
	now     func() time.Time
}

func newSQLRecorder(db *sql.DB, d dialect) *SQLRecorder {
	return &SQLRecorder{db: db, dialect: d, now: time.Now}
}

func (r *SQLRecorder) migrate(stmts []string) error {
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", head(s, 40), err)
		}
	}
	return nil
}

// head returns at most n bytes of s, cut on a rune boundary.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// rebind turns ? placeholders into $n for Postgres.
func (r *SQLRecorder) rebind(q string) string {
	if r.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRecorder) RecordPerformance(ctx context.Context, period model.Period, perfs []model.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM performance_history WHERE period = ?`), string(period)); err != nil {
		return fmt.Errorf("clear period %s: %w", period, err)
	}
	now := r.now().Unix()
	ins := r.rebind(`INSERT INTO performance_history
		(recorded_at, period, symbol, price, percent_change, volume)
		VALUES (?,?,?,?,?,?)`)
	for _, p := range perfs {
		if _, err := tx.ExecContext(ctx, ins, now, string(period), p.Symbol, p.Current, p.PercentChange, p.LastVolume); err != nil {
			return fmt.Errorf("insert %s: %w", p.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLRecorder) RecordDailyPerformers(ctx context.Context, date string, top, bottom []model.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM daily_performers WHERE date = ?`), date); err != nil {
		return fmt.Errorf("clear date %s: %w", date, err)
	}
	ins := r.rebind(`INSERT INTO daily_performers
		(date, kind, symbol, price, percent_change, volume)
		VALUES (?,?,?,?,?,?)`)
	write := func(kind model.PerformerKind, perfs []model.Performance) error {
		for _, p := range perfs {
			if _, err := tx.ExecContext(ctx, ins, date, string(kind), p.Symbol, p.Current, p.PercentChange, p.LastVolume); err != nil {
				return fmt.Errorf("insert %s %s: %w", kind, p.Symbol, err)
			}
		}
		return nil
	}
	if err := write(model.PerformerTop, top); err != nil {
		return err
	}
	if err := write(model.PerformerBottom, bottom); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLRecorder) TopPerformers(ctx context.Context, days, limit int) ([]model.AggregatedPerformer, error) {
	agg, err := r.aggregate(ctx, days)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(agg, func(i, j int) bool { return agg[i].AvgPercentChange > agg[j].AvgPercentChange })
	return headPerformers(agg, limit), nil
}

func (r *SQLRecorder) BottomPerformers(ctx context.Context, days, limit int) ([]model.AggregatedPerformer, error) {
	agg, err := r.aggregate(ctx, days)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(agg, func(i, j int) bool { return agg[i].AvgPercentChange < agg[j].AvgPercentChange })
	return headPerformers(agg, limit), nil
}

func headPerformers(agg []model.AggregatedPerformer, limit int) []model.AggregatedPerformer {
	if limit > 0 && len(agg) > limit {
		return agg[:limit]
	}
	return agg
}

// aggregate averages each symbol's snapshots of the last days; the last
// price is the most recent one.
func (r *SQLRecorder) aggregate(ctx context.Context, days int) ([]model.AggregatedPerformer, error) {
	since := r.now().AddDate(0, 0, -days).Unix()
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT symbol, price, percent_change, volume
		FROM performance_history WHERE recorded_at >= ? ORDER BY recorded_at, id`), since)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	bySymbol := make(map[string]*model.AggregatedPerformer)
	var order []string
	for rows.Next() {
		var sym string
		var price, pct, vol float64
		if err := rows.Scan(&sym, &price, &pct, &vol); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		a, ok := bySymbol[sym]
		if !ok {
			a = &model.AggregatedPerformer{Symbol: sym}
			bySymbol[sym] = a
			order = append(order, sym)
		}
		a.Samples++
		a.AvgPercentChange += pct
		a.AvgVolume += vol
		a.LastPrice = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.AggregatedPerformer, 0, len(order))
	for _, sym := range order {
		a := bySymbol[sym]
		a.AvgPercentChange /= float64(a.Samples)
		a.AvgVolume /= float64(a.Samples)
		out = append(out, *a)
	}
	return out, nil
}

func (r *SQLRecorder) DailyPerformers(ctx context.Context, days int) ([]model.DailyPerformer, error) {
	end := r.now()
	start := end.AddDate(0, 0, -days)
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT date, kind, symbol, price, percent_change, volume
		FROM daily_performers WHERE date >= ? AND date <= ? ORDER BY date DESC, kind DESC, percent_change DESC`),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query daily performers: %w", err)
	}
	defer rows.Close()

	var out []model.DailyPerformer
	for rows.Next() {
		var d model.DailyPerformer
		var kind string
		if err := rows.Scan(&d.Date, &kind, &d.Symbol, &d.Price, &d.PercentChange, &d.Volume); err != nil {
			return nil, fmt.Errorf("scan daily performer: %w", err)
		}
		d.Kind = model.PerformerKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) TickerHistory(ctx context.Context, symbol string, limit int) ([]model.PerformanceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT symbol, price, percent_change, volume, period, recorded_at
		FROM performance_history WHERE symbol = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`), symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query ticker history: %w", err)
	}
	defer rows.Close()

	var out []model.PerformanceRecord
	for rows.Next() {
		var rec model.PerformanceRecord
		var period string
		var ts int64
		if err := rows.Scan(&rec.Symbol, &rec.Price, &rec.PercentChange, &rec.Volume, &period, &ts); err != nil {
			return nil, fmt.Errorf("scan ticker history: %w", err)
		}
		rec.Period = model.Period(period)
		rec.RecordedAt = time.Unix(ts, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) Close() error {
	log.Println("[INFO] closing recorder")
	return r.db.Close()
}
