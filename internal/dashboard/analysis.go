package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"StockTracker/internal/calculator"
	"StockTracker/internal/model"
	"StockTracker/internal/strategy"
)

const (
	rsiPeriod        = 14
	macdSlow         = 26
	bollingerPeriod  = 20
	bollingerK       = 2.0
	volumeBuckets    = 20
	minTechnicalBars = 15
	defaultShortMA   = 5
	defaultLongMA    = 50
)

// DefaultAnalysisPeriod is the analysis page's initial lookback.
const DefaultAnalysisPeriod = model.Period6mo

// DefaultMAPeriods are the moving averages drawn when none are requested.
var DefaultMAPeriods = []int{5, 10, 20, 50, 200}

// AnalysisRequest selects what the analysis page computes.
type AnalysisRequest struct {
	Symbol    string         `json:"symbol"`
	Period    model.Period   `json:"period"`
	Interval  model.Interval `json:"interval"`
	MAPeriods []int          `json:"ma_periods"`
	ShortMA   int            `json:"short_ma"`
	LongMA    int            `json:"long_ma"`
}

// withDefaults fills zero fields.
func (r AnalysisRequest) withDefaults() AnalysisRequest {
	if r.Period == "" {
		r.Period = DefaultAnalysisPeriod
	}
	if r.Interval == "" {
		r.Interval = model.IntervalDay
	}
	if len(r.MAPeriods) == 0 {
		r.MAPeriods = DefaultMAPeriods
	}
	if r.ShortMA <= 0 {
		r.ShortMA = defaultShortMA
	}
	if r.LongMA <= 0 {
		r.LongMA = defaultLongMA
	}
	return r
}

// CrossoverPoint is a moving-average crossover placed on the time axis.
type CrossoverPoint struct {
	Time    time.Time `json:"time"`
	Price   float64   `json:"price"`
	Bullish bool      `json:"bullish"`
}

// MACDView holds the three MACD lines.
type MACDView struct {
	MACD      model.IndicatorSeries `json:"macd"`
	Signal    model.IndicatorSeries `json:"signal"`
	Histogram model.IndicatorSeries `json:"histogram"`
}

// BollingerView holds the band lines.
type BollingerView struct {
	Middle model.IndicatorSeries `json:"middle"`
	Upper  model.IndicatorSeries `json:"upper"`
	Lower  model.IndicatorSeries `json:"lower"`
	Width  model.IndicatorSeries `json:"width"`
}

// AnalysisPage is the single-ticker analysis.
type AnalysisPage struct {
	Status
	Request        AnalysisRequest          `json:"request"`
	Security       *model.Security          `json:"security,omitempty"`
	Change         *float64                 `json:"change,omitempty"`
	ChangePct      *float64                 `json:"change_pct,omitempty"`
	Range          calculator.PeriodSummary `json:"range"`
	Position52w    *float64                 `json:"position_52w,omitempty"`
	MovingAverages []model.IndicatorSeries  `json:"moving_averages,omitempty"`
	Crossovers     []CrossoverPoint         `json:"crossovers,omitempty"`
	RSI            *model.IndicatorSeries   `json:"rsi,omitempty"`
	RSILast        *float64                 `json:"rsi_last,omitempty"`
	RSICategory    string                   `json:"rsi_category,omitempty"`
	MACD           *MACDView                `json:"macd,omitempty"`
	Bollinger      *BollingerView           `json:"bollinger,omitempty"`
	DailyReturns   *model.IndicatorSeries   `json:"daily_returns,omitempty"`
	Returns        *calculator.ReturnStats  `json:"returns,omitempty"`
	Volume         calculator.VolumeStats   `json:"volume"`
	VolumeProfile  []calculator.PriceBucket `json:"volume_profile,omitempty"`
	Outlook        *model.Outlook           `json:"outlook,omitempty"`
}

// Analysis fetches one ticker and derives its indicators. Indicators the bar
// count cannot support are left out with a note.
func (d *Dashboard) Analysis(ctx context.Context, req AnalysisRequest) *AnalysisPage {
	req = req.withDefaults()
	page := &AnalysisPage{Status: okStatus(), Request: req}

	sec, err := d.Collector.Security(ctx, req.Symbol, req.Period, req.Interval)
	if err != nil {
		page.fail("analysis", err)
		return page
	}
	page.Security = sec
	page.Request.Symbol = sec.Symbol

	if sec.Quote != nil && sec.Quote.PreviousClose != 0 {
		abs, pct := sec.Quote.Change()
		page.Change, page.ChangePct = &abs, &pct
	}
	page.Range, _ = calculator.PeriodRange(sec.Bars)
	page.Volume = calculator.CalculateVolumeStats(sec.Bars)
	page.VolumeProfile = calculator.VolumeByPrice(sec.Bars, volumeBuckets)

	price := sec.Bars[len(sec.Bars)-1].Close
	if sec.Quote != nil && sec.Quote.Price > 0 {
		price = sec.Quote.Price
	}
	pos52 := math.NaN()
	if sec.Quote != nil {
		if p, err := calculator.Calculate52WeekPosition(price, sec.Quote.High52w, sec.Quote.Low52w); err == nil {
			pos52 = p
			page.Position52w = &p
		}
	}

	closes := sec.Closes()
	times := sec.Times()
	if len(closes) < minTechnicalBars {
		page.Note("Technical indicators need at least %d bars; %s of %s bars returned %d. Choose a longer period.",
			minTechnicalBars, req.Period.Label(), strings.ToLower(req.Interval.Label()), len(closes))
		return page
	}

	d.movingAverages(page, closes, times)
	d.oscillators(page, closes, times)

	rets := calculator.DailyReturns(closes)
	dr := model.NewIndicatorSeries("Daily return %", times, rets)
	page.DailyReturns = &dr
	st := calculator.CalculateReturnStats(closes)
	page.Returns = &st

	page.Outlook = outlook(sec.Bars, closes, price, pos52, page.RSILast)
	return page
}

func (d *Dashboard) movingAverages(page *AnalysisPage, closes []float64, times []time.Time) {
	req := page.Request
	periods := append([]int(nil), req.MAPeriods...)
	sort.Ints(periods)
	series, skipped := calculator.MovingAverages(closes, periods)
	for _, p := range periods {
		if s, ok := series[p]; ok {
			page.MovingAverages = append(page.MovingAverages, model.NewIndicatorSeries(fmt.Sprintf("SMA(%d)", p), times, s))
		}
	}
	for _, p := range skipped {
		page.Note("SMA(%d) needs %d bars; only %d available.", p, p, len(closes))
	}

	if req.ShortMA >= req.LongMA {
		page.Note("Crossovers need a short MA below the long MA (got %d and %d).", req.ShortMA, req.LongMA)
		return
	}
	short, errS := calculator.SMASeries(closes, req.ShortMA)
	long, errL := calculator.SMASeries(closes, req.LongMA)
	if errS != nil || errL != nil || len(closes) < req.LongMA {
		page.Note("Crossovers of SMA(%d)/SMA(%d) need %d bars; only %d available.", req.ShortMA, req.LongMA, req.LongMA, len(closes))
		return
	}
	for _, c := range calculator.Crossovers(short, long) {
		page.Crossovers = append(page.Crossovers, CrossoverPoint{
			Time:    times[c.Index],
			Price:   closes[c.Index],
			Bullish: c.Bullish,
		})
	}
}

func (d *Dashboard) oscillators(page *AnalysisPage, closes []float64, times []time.Time) {
	if rsi, err := calculator.RSISeries(closes, rsiPeriod); err != nil {
		page.Note("RSI(%d) unavailable: %v.", rsiPeriod, err)
	} else {
		s := model.NewIndicatorSeries(fmt.Sprintf("RSI(%d)", rsiPeriod), times, rsi)
		page.RSI = &s
		if v, ok := s.Last(); ok {
			page.RSILast = &v
			page.RSICategory = calculator.RSICategory(v)
		}
	}

	if len(closes) < macdSlow {
		page.Note("MACD needs at least %d bars; only %d available.", macdSlow, len(closes))
	} else {
		m := calculator.MACD(closes)
		page.MACD = &MACDView{
			MACD:      model.NewIndicatorSeries("MACD", times, m.MACD),
			Signal:    model.NewIndicatorSeries("Signal", times, m.Signal),
			Histogram: model.NewIndicatorSeries("Histogram", times, m.Histogram),
		}
	}

	if bb, err := calculator.Bollinger(closes, bollingerPeriod, bollingerK); err != nil || len(closes) < bollingerPeriod {
		page.Note("Bollinger bands need %d bars; only %d available.", bollingerPeriod, len(closes))
	} else {
		page.Bollinger = &BollingerView{
			Middle: model.NewIndicatorSeries("Middle", times, bb.Middle),
			Upper:  model.NewIndicatorSeries("Upper", times, bb.Upper),
			Lower:  model.NewIndicatorSeries("Lower", times, bb.Lower),
			Width:  model.NewIndicatorSeries("Width", times, bb.Width),
		}
	}
}

func outlook(bars []model.OHLCV, closes []float64, price, pos52 float64, rsiLast *float64) *model.Outlook {
	sma := func(n int) float64 {
		v, err := calculator.CalculateSMA(closes, n)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	in := model.TechnicalInputs{
		Price:       price,
		FastMA:      sma(20),
		SlowMA:      sma(50),
		LongMA:      sma(200),
		RSI:         math.NaN(),
		Position52w: pos52,
		High30:      math.NaN(),
		Low30:       math.NaN(),
	}
	if rsiLast != nil {
		in.RSI = *rsiLast
	}
	if hi, lo, err := calculator.Calculate30DayRange(bars); err == nil {
		in.High30, in.Low30 = hi, lo
	}
	o := strategy.Evaluate(in)
	return &o
}

// SecurityPage is the raw bars and quote of one ticker.
type SecurityPage struct {
	Status
	Security *model.Security `json:"security,omitempty"`
}

// Security fetches one ticker without deriving indicators.
func (d *Dashboard) Security(ctx context.Context, symbol string, period model.Period, interval model.Interval) *SecurityPage {
	page := &SecurityPage{Status: okStatus()}
	sec, err := d.Collector.Security(ctx, symbol, period, interval)
	if err != nil {
		page.fail("security", err)
		return page
	}
	page.Security = sec
	return page
}
