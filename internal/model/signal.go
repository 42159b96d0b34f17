package model

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"` // -2 ~ +2
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// TechnicalInputs are the latest indicator readings an outlook is scored from.
// NaN marks a reading the bars were too short to produce.
type TechnicalInputs struct {
	Price       float64
	FastMA      float64 // e.g. SMA(20)
	SlowMA      float64 // e.g. SMA(50)
	LongMA      float64 // e.g. SMA(200)
	RSI         float64
	Position52w float64 // 0 ~ 1
	High30      float64
	Low30       float64
}

// Outlook is the weighted factor summary shown on the analysis page.
// Positive scores mean the price is cheap relative to its own history.
type Outlook struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Label      string        `json:"label"`
	Warning    string        `json:"warning,omitempty"`
}
