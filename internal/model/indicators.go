package model

import (
	"encoding/json"
	"math"
	"time"
)

// IndicatorSeries is a derived series aligned to the bars it was computed from.
// NaN marks positions where the indicator is not yet defined.
type IndicatorSeries struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// NewIndicatorSeries pairs values with the timestamps of the source bars.
func NewIndicatorSeries(name string, times []time.Time, values []float64) IndicatorSeries {
	return IndicatorSeries{Name: name, Times: times, Values: values}
}

// Last returns the most recent defined value.
func (s IndicatorSeries) Last() (float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.Values[i]) {
			return s.Values[i], true
		}
	}
	return math.NaN(), false
}

// Defined reports whether any value is defined.
func (s IndicatorSeries) Defined() bool {
	_, ok := s.Last()
	return ok
}

// MarshalJSON writes NaN as null so the series stays valid JSON.
func (s IndicatorSeries) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(s.Values))
	for i := range s.Values {
		if !math.IsNaN(s.Values[i]) && !math.IsInf(s.Values[i], 0) {
			v := s.Values[i]
			vals[i] = &v
		}
	}
	return json.Marshal(struct {
		Name   string      `json:"name"`
		Times  []time.Time `json:"times"`
		Values []*float64  `json:"values"`
	}{s.Name, s.Times, vals})
}
