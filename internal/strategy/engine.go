// Package strategy scores the latest technical readings of a ticker into a
// single outlook.
package strategy

import "StockTracker/internal/model"

// Tiers maps a total score to an outlook label, highest first.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "Deep value"},
	{0.8, "Attractive"},
	{0.0, "Neutral"},
	{-0.8, "Stretched"},
}

// DefaultLabel is used for scores below every tier.
const DefaultLabel = "Overheated"

// takeProfitRSI is the RSI above which a take-profit warning is attached.
const takeProfitRSI = 85

func mapTier(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultLabel
}

// Evaluate computes the outlook from the latest indicator readings.
func Evaluate(in model.TechnicalInputs) model.Outlook {
	f1 := scoreMADeviation(in)
	f2 := scoreRSI(in)
	f4 := scoreTrend(in)

	// the 52-week factor needs the mean of the others
	otherAvg := (f1.RawScore + f2.RawScore + f4.RawScore) / 3.0
	f3 := score52WeekPosition(in, otherAvg)

	factors := []model.FactorScore{f1, f2, f3, f4}
	var total float64
	for _, f := range factors {
		total += f.Weighted
	}

	out := model.Outlook{
		Factors:    factors,
		TotalScore: total,
		Label:      mapTier(total),
	}
	if in.RSI > takeProfitRSI {
		out.Warning = "RSI above 85: consider taking partial profits"
	}
	return out
}
