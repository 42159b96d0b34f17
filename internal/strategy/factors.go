package strategy

import (
	"fmt"
	"math"

	"StockTracker/internal/model"
)

const (
	weightMA       = 0.35
	weightRSI      = 0.30
	weightPosition = 0.15
	weightTrend    = 0.20
)

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

func unavailable(v float64) bool {
	return math.IsNaN(v) || v == 0
}

// ladder maps a reading onto a score: the first bound the reading does not
// exceed picks the score at the same index, past the last bound it is -2.
type ladder []float64

var ladderScores = [...]float64{2.0, 1.5, 1.0, 0.5, 0, -0.5, -1.0, -1.5}

var (
	deviationLadder = ladder{-20, -10, -5, 0, 5, 10, 15, 20}
	rsiLadder       = ladder{25, 30, 40, 45, 55, 60, 70, 80}
	positionLadder  = ladder{10, 20, 30, 40, 60, 70, 80, 95}
)

func (l ladder) score(v float64) (float64, bool) {
	for i, bound := range l {
		if v <= bound {
			return ladderScores[i], true
		}
	}
	return -2.0, false
}

// scoreMADeviation scores how far the price sits from the long moving average.
func scoreMADeviation(in model.TechnicalInputs) model.FactorScore {
	const name = "Long MA deviation"
	if unavailable(in.LongMA) {
		return factor(name, 0, weightMA, "long MA unavailable")
	}
	deviation := (in.Price - in.LongMA) / in.LongMA * 100
	score, _ := deviationLadder.score(deviation)
	return factor(name, score, weightMA, fmt.Sprintf("%+.1f%% from long MA", deviation))
}

// scoreRSI scores the latest RSI(14).
func scoreRSI(in model.TechnicalInputs) model.FactorScore {
	const name = "RSI"
	if math.IsNaN(in.RSI) {
		return factor(name, 0, weightRSI, "RSI unavailable")
	}
	score, _ := rsiLadder.score(in.RSI)
	return factor(name, score, weightRSI, fmt.Sprintf("RSI=%.0f", in.RSI))
}

// score52WeekPosition scores where the price sits in the 52-week range.
// Above 95% it only reaches -2 when the other factors already average below -1.
func score52WeekPosition(in model.TechnicalInputs, otherAvg float64) model.FactorScore {
	const name = "52-week position"
	if math.IsNaN(in.Position52w) {
		return factor(name, 0, weightPosition, "52-week range unavailable")
	}
	pos := in.Position52w * 100
	score, inRange := positionLadder.score(pos)
	if !inRange && otherAvg >= -1 {
		score = -1.0
	}
	return factor(name, score, weightPosition, fmt.Sprintf("at %.0f%% of range", pos))
}

// scoreTrend scores moving-average alignment and 30-bar extremes.
// Bull alignment: price > fast MA > slow MA; bear alignment is the reverse.
// Unlike the other factors this one follows the trend.
func scoreTrend(in model.TechnicalInputs) model.FactorScore {
	const name = "Trend"
	if unavailable(in.FastMA) || unavailable(in.SlowMA) {
		return factor(name, 0, weightTrend, "moving averages unavailable")
	}
	bullish := in.Price > in.FastMA && in.FastMA > in.SlowMA
	bearish := in.Price < in.FastMA && in.FastMA < in.SlowMA

	near := func(level float64) bool {
		return !unavailable(level) && math.Abs(in.Price-level)/level < 0.01
	}

	var score float64
	var commentary string
	switch {
	case bullish && near(in.High30):
		score, commentary = 1.5, "bullish alignment at 30-bar high"
	case bullish:
		score, commentary = 1.0, "bullish alignment"
	case bearish && near(in.Low30):
		score, commentary = -1.0, "bearish alignment at 30-bar low"
	case bearish:
		score, commentary = -0.5, "bearish alignment"
	default:
		score, commentary = 0, "range-bound"
	}
	return factor(name, score, weightTrend, commentary)
}
