// Package archive keeps fetched daily bars on disk as Parquet files.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"StockTracker/internal/model"
)

// BarRecord is the Parquet schema for daily bar data.
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ParquetArchive stores bars at <Dir>/<SYMBOL>/<YYYY>.parquet.
type ParquetArchive struct {
	Dir string
}

// NewParquetArchive creates an archive rooted at dir.
func NewParquetArchive(dir string) *ParquetArchive {
	return &ParquetArchive{Dir: dir}
}

// WriteBars merges bars into the symbol's year files; a bar with the same
// timestamp as a stored one replaces it.
func (a *ParquetArchive) WriteBars(_ context.Context, symbol string, bars []model.OHLCV) error {
	if len(bars) == 0 {
		return nil
	}
	symbol = strings.ToUpper(symbol)
	groups := make(map[int][]BarRecord)
	for _, b := range bars {
		y := b.Time.UTC().Year()
		groups[y] = append(groups[y], BarRecord{
			Symbol:    symbol,
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	for year, records := range groups {
		path := a.path(symbol, year)
		existing, err := readFile(path)
		if err != nil {
			return fmt.Errorf("reading %s/%d: %w", symbol, year, err)
		}
		merged := mergeBarRecords(existing, records)
		if err := writeFile(path, merged); err != nil {
			return fmt.Errorf("writing bars for %s/%d: %w", symbol, year, err)
		}
	}
	return nil
}

// ReadBars returns the stored bars of symbol in [from, to], oldest first.
func (a *ParquetArchive) ReadBars(_ context.Context, symbol string, from, to time.Time) ([]model.OHLCV, error) {
	symbol = strings.ToUpper(symbol)
	var bars []model.OHLCV
	for year := from.UTC().Year(); year <= to.UTC().Year(); year++ {
		records, err := readFile(a.path(symbol, year))
		if err != nil {
			return nil, fmt.Errorf("reading %s/%d: %w", symbol, year, err)
		}
		for _, r := range records {
			t := time.UnixMilli(r.Timestamp).UTC()
			if t.Before(from) || t.After(to) {
				continue
			}
			bars = append(bars, model.OHLCV{Time: t, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume})
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// Symbols lists the archived symbols.
func (a *ParquetArchive) Symbols() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (a *ParquetArchive) path(symbol string, year int) string {
	return filepath.Join(a.Dir, symbol, strconv.Itoa(year)+".parquet")
}

func writeFile(path string, records []BarRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

// readFile returns nil for a missing file.
func readFile(path string) ([]BarRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return parquet.ReadFile[BarRecord](path)
}

// mergeBarRecords deduplicates by timestamp, preferring incoming records.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	byTS := make(map[int64]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		byTS[r.Timestamp] = r
	}
	for _, r := range incoming {
		byTS[r.Timestamp] = r
	}
	out := make([]BarRecord, 0, len(byTS))
	for _, r := range byTS {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
