package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"StockTracker/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Now       func() time.Time
}

// yahooRanges are the range values the chart endpoint accepts. Other
// periods are sent as period1/period2.
var yahooRanges = map[model.Period]bool{
	model.Period1d:  true,
	model.Period5d:  true,
	model.Period1mo: true,
	model.Period3mo: true,
	model.Period6mo: true,
	model.Period1y:  true,
	model.Period2y:  true,
	model.Period5y:  true,
	model.Period10y: true,
	model.PeriodYTD: true,
	model.PeriodMax: true,
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL, 30*time.Second),
		Now:     time.Now,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// chartResponse is the subset of the v8 chart payload read into bars.
// Quote arrays hold null on days without trading.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []chartQuote `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// bar returns the i-th bar; ok is false for a null close.
func (q chartQuote) bar(i int, ts int64) (model.OHLCV, bool) {
	get := func(vals []*float64) float64 {
		if i >= len(vals) || vals[i] == nil {
			return 0
		}
		return *vals[i]
	}
	if i >= len(q.Close) || q.Close[i] == nil || *q.Close[i] == 0 {
		return model.OHLCV{}, false
	}
	return model.OHLCV{
		Time:   time.Unix(ts, 0).UTC(),
		Open:   get(q.Open),
		High:   get(q.High),
		Low:    get(q.Low),
		Close:  *q.Close[i],
		Volume: get(q.Volume),
	}, true
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, q url.Values) ([]model.OHLCV, any, error) {
	base := f.BaseURL
	if base == "" {
		base = yahooBaseURL
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", base, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
		}
		return nil, nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("yahoo decode: %w", err)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if b, ok := quote.bar(i, ts); ok {
			bars = append(bars, b)
		}
	}
	if len(bars) == 0 {
		return nil, nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, raw, nil
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	if !yahooRanges[period] {
		now := time.Now()
		if f.Now != nil {
			now = f.Now()
		}
		return f.FetchRange(ctx, symbol, period.Start(now), now, interval)
	}
	q := url.Values{}
	q.Set("interval", string(interval))
	q.Set("range", string(period))
	bars, _, err := f.fetchChart(ctx, symbol, q)
	return bars, err
}

func (f *YahooFetcher) FetchRange(ctx context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("interval", string(interval))
	q.Set("period1", strconv.FormatInt(from.Unix(), 10))
	q.Set("period2", strconv.FormatInt(to.Unix(), 10))
	bars, _, err := f.fetchChart(ctx, symbol, q)
	return bars, err
}

// FetchQuote reads the chart meta block; fields the meta lacks are filled
// from the last bars.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "5d")
	bars, raw, err := f.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	quote, _ := quoteFromDaily(symbol, bars)

	num := func(field string) float64 {
		v, ok := metaValue(raw, field).(float64)
		if !ok {
			return 0
		}
		return v
	}
	str := func(field string) string {
		s, _ := metaValue(raw, field).(string)
		return s
	}

	if v := num("regularMarketPrice"); v > 0 {
		quote.Price = v
	}
	if v := num("chartPreviousClose"); v > 0 {
		quote.PreviousClose = v
	}
	if v := num("previousClose"); v > 0 {
		quote.PreviousClose = v
	}
	if v := num("regularMarketDayHigh"); v > 0 {
		quote.DayHigh = v
	}
	if v := num("regularMarketDayLow"); v > 0 {
		quote.DayLow = v
	}
	if v := num("fiftyTwoWeekHigh"); v > 0 {
		quote.High52w = v
	}
	if v := num("fiftyTwoWeekLow"); v > 0 {
		quote.Low52w = v
	}
	if v := num("regularMarketVolume"); v > 0 {
		quote.Volume = v
	}
	if v := num("regularMarketTime"); v > 0 {
		quote.Time = time.Unix(int64(v), 0).UTC()
	}
	quote.Currency = str("currency")
	quote.Exchange = str("fullExchangeName")
	if quote.Exchange == "" {
		quote.Exchange = str("exchangeName")
	}
	quote.ShortName = str("shortName")
	if quote.ShortName == "" {
		quote.ShortName = str("longName")
	}
	return quote, nil
}

// metaValue evaluates $.chart.result[0].meta.<field>; missing fields yield nil.
func metaValue(raw any, field string) any {
	if raw == nil {
		return nil
	}
	v, err := jsonpath.Get("$.chart.result[0].meta."+field, raw)
	if err != nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	return v
}
