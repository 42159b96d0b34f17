package model

import "time"

// Performance summarises one ticker over a period.
type Performance struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Start         float64 `json:"start"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	AvgVolume     float64 `json:"avg_volume"`
	LastVolume    float64 `json:"last_volume"`
}

// PerformerKind separates the two halves of a daily ranking.
type PerformerKind string

const (
	PerformerTop    PerformerKind = "top"
	PerformerBottom PerformerKind = "bottom"
)

// PerformanceRecord is a stored performance row.
type PerformanceRecord struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PercentChange float64   `json:"percent_change"`
	Volume        float64   `json:"volume"`
	Period        Period    `json:"period"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// AggregatedPerformer is a ticker's performance averaged over stored snapshots.
type AggregatedPerformer struct {
	Symbol           string  `json:"symbol"`
	AvgPercentChange float64 `json:"avg_percent_change"`
	LastPrice        float64 `json:"last_price"`
	AvgVolume        float64 `json:"avg_volume"`
	Samples          int     `json:"samples"`
}

// DailyPerformer is one row of a stored daily ranking.
type DailyPerformer struct {
	Date          string        `json:"date"`
	Symbol        string        `json:"symbol"`
	Price         float64       `json:"price"`
	PercentChange float64       `json:"percent_change"`
	Volume        float64       `json:"volume"`
	Kind          PerformerKind `json:"kind"`
}
