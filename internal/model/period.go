package model

import (
	"fmt"
	"time"
)

// Period is a lookback window. Most values match a Yahoo chart range; the
// rest are expressed to Yahoo as an explicit start and end.
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1wk Period = "1wk"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// Periods lists every accepted period in display order.
var Periods = []Period{Period1d, Period5d, Period1wk, Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y, Period10y, PeriodYTD, PeriodMax}

var periodLabels = map[Period]string{
	Period1d:  "1 Day",
	Period5d:  "5 Days",
	Period1wk: "1 Week",
	Period1mo: "1 Month",
	Period3mo: "3 Months",
	Period6mo: "6 Months",
	Period1y:  "1 Year",
	Period2y:  "2 Years",
	Period5y:  "5 Years",
	Period10y: "10 Years",
	PeriodYTD: "YTD",
	PeriodMax: "Max",
}

// ParsePeriod validates s. An empty string yields def.
func ParsePeriod(s string, def Period) (Period, error) {
	if s == "" {
		return def, nil
	}
	p := Period(s)
	if _, ok := periodLabels[p]; !ok {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// Label is the human readable name of the period.
func (p Period) Label() string { return periodLabels[p] }

// Start returns the first instant covered by the period when looking back from now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Period1d:
		return now.AddDate(0, 0, -1)
	case Period5d:
		return now.AddDate(0, 0, -5)
	case Period1wk:
		return now.AddDate(0, 0, -7)
	case Period1mo:
		return now.AddDate(0, -1, 0)
	case Period3mo:
		return now.AddDate(0, -3, 0)
	case Period6mo:
		return now.AddDate(0, -6, 0)
	case Period1y:
		return now.AddDate(-1, 0, 0)
	case Period2y:
		return now.AddDate(-2, 0, 0)
	case Period5y:
		return now.AddDate(-5, 0, 0)
	case Period10y:
		return now.AddDate(-10, 0, 0)
	case PeriodYTD:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Interval is the bar size.
type Interval string

const (
	IntervalDay   Interval = "1d"
	IntervalWeek  Interval = "1wk"
	IntervalMonth Interval = "1mo"
)

// Intervals lists every accepted interval.
var Intervals = []Interval{IntervalDay, IntervalWeek, IntervalMonth}

// ParseInterval validates s. An empty string yields def.
func ParseInterval(s string, def Interval) (Interval, error) {
	switch Interval(s) {
	case "":
		return def, nil
	case IntervalDay, IntervalWeek, IntervalMonth:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unknown interval %q", s)
}

// Label is the human readable name of the interval.
func (i Interval) Label() string {
	switch i {
	case IntervalWeek:
		return "Weekly"
	case IntervalMonth:
		return "Monthly"
	default:
		return "Daily"
	}
}
