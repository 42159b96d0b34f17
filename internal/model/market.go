package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Quote is the provider's snapshot of a ticker at fetch time.
// Zero values mean the provider did not report the field.
type Quote struct {
	Symbol        string    `json:"symbol"`
	ShortName     string    `json:"short_name,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	High52w       float64   `json:"high_52w"`
	Low52w        float64   `json:"low_52w"`
	Volume        float64   `json:"volume"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	Time          time.Time `json:"time"`
}

// Change returns the absolute and percentage move against the previous close.
func (q *Quote) Change() (abs, pct float64) {
	if q == nil || q.PreviousClose == 0 {
		return 0, 0
	}
	abs = q.Price - q.PreviousClose
	return abs, abs / q.PreviousClose * 100
}

// Security holds the bars and quote fetched for one ticker in one request.
type Security struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	Period    Period    `json:"period"`
	Interval  Interval  `json:"interval"`
	Bars      []OHLCV   `json:"bars"`
	Quote     *Quote    `json:"quote,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Closes extracts the close column.
func (s *Security) Closes() []float64 {
	return Closes(s.Bars)
}

// Times extracts the timestamp column.
func (s *Security) Times() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time
	}
	return out
}

// Closes extracts the close column of bars.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column of bars.
func Volumes(bars []OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
