package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioEntry is one user-entered holding.
type PortfolioEntry struct {
	ID        string          `json:"id"`
	Ticker    string          `json:"ticker"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"` // per unit
	Currency  string          `json:"currency"`
	AddedAt   time.Time       `json:"added_at"`
}

// Price is a quoted price in the currency the exchange trades it in.
// An empty Currency means the provider did not say.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

// Holding is an entry valued at a current price.
type Holding struct {
	Entry       PortfolioEntry  `json:"entry"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	MarketValue decimal.Decimal `json:"market_value"`
	Cost        decimal.Decimal `json:"cost"`
	Gain        decimal.Decimal `json:"gain"`
	ReturnPct   decimal.Decimal `json:"return_pct"`
	Weight      decimal.Decimal `json:"weight_pct"`
}

// Valuation is the aggregate view of a portfolio at current prices.
// Foreign maps unpriced tickers to their quote currency when it differs
// from Currency.
type Valuation struct {
	Holdings   []Holding         `json:"holdings"`
	Unpriced   []PortfolioEntry  `json:"unpriced,omitempty"`
	Foreign    map[string]string `json:"foreign,omitempty"`
	Currency   string            `json:"currency"`
	TotalValue decimal.Decimal   `json:"total_value"`
	TotalCost  decimal.Decimal   `json:"total_cost"`
	TotalGain  decimal.Decimal   `json:"total_gain"`
	ReturnPct  decimal.Decimal   `json:"return_pct"`
	ValuedAt   time.Time         `json:"valued_at"`
}
