// Package portfolio keeps session-scoped holdings and values them at current prices.
package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StockTracker/internal/model"
)

var (
	ErrInvalidEntry = errors.New("invalid portfolio entry")
	ErrNotFound     = errors.New("portfolio entry not found")
)

// Portfolio holds entries with concurrency safety. Nothing is persisted.
type Portfolio struct {
	mu       sync.Mutex
	entries  []model.PortfolioEntry
	currency string
	now      func() time.Time
}

// New creates an empty portfolio valued in currency.
func New(currency string) *Portfolio {
	if currency == "" {
		currency = "USD"
	}
	return &Portfolio{currency: strings.ToUpper(currency), now: time.Now}
}

// Currency is the valuation currency.
func (p *Portfolio) Currency() string { return p.currency }

// ParseEntry validates user input; numbers are parsed exactly.
func ParseEntry(ticker, quantity, costBasis string) (string, decimal.Decimal, decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return "", decimal.Zero, decimal.Zero, fmt.Errorf("quantity %q: %w", quantity, ErrInvalidEntry)
	}
	cost := decimal.Zero
	if s := strings.TrimSpace(costBasis); s != "" {
		cost, err = decimal.NewFromString(s)
		if err != nil {
			return "", decimal.Zero, decimal.Zero, fmt.Errorf("cost basis %q: %w", costBasis, ErrInvalidEntry)
		}
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := validate(ticker, qty, cost); err != nil {
		return "", decimal.Zero, decimal.Zero, err
	}
	return ticker, qty, cost, nil
}

func validate(ticker string, qty, cost decimal.Decimal) error {
	switch {
	case ticker == "":
		return fmt.Errorf("empty ticker: %w", ErrInvalidEntry)
	case !qty.IsPositive():
		return fmt.Errorf("quantity must be positive: %w", ErrInvalidEntry)
	case cost.IsNegative():
		return fmt.Errorf("cost basis must not be negative: %w", ErrInvalidEntry)
	}
	return nil
}

// Add appends a holding. The same ticker may appear in several entries.
func (p *Portfolio) Add(ticker string, qty, costBasis decimal.Decimal) (model.PortfolioEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := validate(ticker, qty, costBasis); err != nil {
		return model.PortfolioEntry{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	e := model.PortfolioEntry{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		Quantity:  qty,
		CostBasis: costBasis,
		Currency:  p.currency,
		AddedAt:   p.now(),
	}
	p.entries = append(p.entries, e)
	return e, nil
}

// Update replaces quantity and cost basis of an entry.
func (p *Portfolio) Update(id string, qty, costBasis decimal.Decimal) (model.PortfolioEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.entries {
		if p.entries[i].ID != id {
			continue
		}
		if err := validate(p.entries[i].Ticker, qty, costBasis); err != nil {
			return model.PortfolioEntry{}, err
		}
		p.entries[i].Quantity = qty
		p.entries[i].CostBasis = costBasis
		return p.entries[i], nil
	}
	return model.PortfolioEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
}

// Remove deletes an entry by id.
func (p *Portfolio) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.entries {
		if p.entries[i].ID == id {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %s: %w", id, ErrNotFound)
}

// Entries returns a copy of the entries in insertion order.
func (p *Portfolio) Entries() []model.PortfolioEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.PortfolioEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Tickers returns the distinct tickers held, sorted.
func (p *Portfolio) Tickers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[string]bool, len(p.entries))
	var out []string
	for _, e := range p.entries {
		if !seen[e.Ticker] {
			seen[e.Ticker] = true
			out = append(out, e.Ticker)
		}
	}
	sort.Strings(out)
	return out
}

// Len is the number of entries.
func (p *Portfolio) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Valuate values the current entries at prices.
func (p *Portfolio) Valuate(prices map[string]model.Price) model.Valuation {
	v := Valuate(p.Entries(), prices, p.currency)
	v.ValuedAt = p.now()
	return v
}
