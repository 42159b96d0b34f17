package portfolio

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAdd_Validation(t *testing.T) {
	p := New("usd")
	_, err := p.Add("", d("1"), d("1"))
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = p.Add("AAPL", d("0"), d("1"))
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = p.Add("AAPL", d("-2"), d("1"))
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = p.Add("AAPL", d("2"), d("-1"))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	e, err := p.Add(" aapl ", d("2"), d("0"))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", e.Ticker)
	assert.Equal(t, "USD", e.Currency)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, p.Len())
}

func TestParseEntry(t *testing.T) {
	ticker, qty, cost, err := ParseEntry("msft", "1.5", "")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", ticker)
	assert.True(t, qty.Equal(d("1.5")))
	assert.True(t, cost.IsZero())

	_, _, _, err = ParseEntry("msft", "abc", "1")
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, _, _, err = ParseEntry("msft", "1", "x")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestUpdateRemove(t *testing.T) {
	p := New("USD")
	e, err := p.Add("AAPL", d("1"), d("100"))
	require.NoError(t, err)

	up, err := p.Update(e.ID, d("3"), d("90"))
	require.NoError(t, err)
	assert.True(t, up.Quantity.Equal(d("3")))

	_, err = p.Update("missing", d("1"), d("1"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = p.Update(e.ID, d("0"), d("1"))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	require.NoError(t, p.Remove(e.ID))
	assert.ErrorIs(t, p.Remove(e.ID), ErrNotFound)
	assert.Empty(t, p.Entries())
}

func TestTickers_Distinct(t *testing.T) {
	p := New("USD")
	for _, tk := range []string{"MSFT", "AAPL", "MSFT"} {
		_, err := p.Add(tk, d("1"), d("1"))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.Tickers())
}

func TestValuate_TotalValueIsSumOfQuantityTimesPrice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tickers := []string{"AAA", "BBB", "CCC", "DDD"}
	for trial := 0; trial < 30; trial++ {
		p := New("USD")
		prices := make(map[string]model.Price)
		for _, tk := range tickers {
			prices[tk] = model.Price{Amount: decimal.NewFromInt(int64(1+rng.Intn(100000))).Shift(-2), Currency: "USD"}
		}
		n := 1 + rng.Intn(8)
		want := decimal.Zero
		for i := 0; i < n; i++ {
			tk := tickers[rng.Intn(len(tickers))]
			qty := d(strconv.Itoa(1+rng.Intn(500)) + "." + strconv.Itoa(rng.Intn(1000)))
			cost := decimal.NewFromInt(int64(rng.Intn(50000))).Shift(-2)
			_, err := p.Add(tk, qty, cost)
			require.NoError(t, err)
			want = want.Add(qty.Mul(prices[tk].Amount))
		}

		v := p.Valuate(prices)
		assert.True(t, want.Equal(v.TotalValue), "trial %d: want %s got %s", trial, want, v.TotalValue)
		assert.Empty(t, v.Unpriced)
		assert.Len(t, v.Holdings, n)
	}
}

func TestValuate_GainsAndUnpriced(t *testing.T) {
	p := New("USD")
	_, _ = p.Add("AAA", d("10"), d("5"))
	_, _ = p.Add("BBB", d("2"), d("50"))
	_, _ = p.Add("ZZZ", d("1"), d("1"))

	v := p.Valuate(map[string]model.Price{"AAA": {Amount: d("6")}, "BBB": {Amount: d("40"), Currency: "usd"}})
	require.Len(t, v.Holdings, 2)
	require.Len(t, v.Unpriced, 1)
	assert.Equal(t, "ZZZ", v.Unpriced[0].Ticker)

	assert.True(t, v.TotalValue.Equal(d("140")))
	assert.True(t, v.TotalCost.Equal(d("150")))
	assert.True(t, v.TotalGain.Equal(d("-10")))
	assert.Equal(t, "-6.67", v.ReturnPct.StringFixed(2))
	assert.True(t, v.Holdings[0].ReturnPct.Equal(d("20")))
	assert.Equal(t, "42.86", v.Holdings[0].Weight.StringFixed(2))
}

func TestValuate_ForeignQuoteIsExcluded(t *testing.T) {
	p := New("USD")
	_, _ = p.Add("AAPL", d("2"), d("100"))
	_, _ = p.Add("RELIANCE.BO", d("10"), d("2500"))

	v := p.Valuate(map[string]model.Price{
		"AAPL":        {Amount: d("150"), Currency: "USD"},
		"RELIANCE.BO": {Amount: d("2900"), Currency: "INR"},
	})
	require.Len(t, v.Holdings, 1)
	assert.Equal(t, "USD", v.Holdings[0].Currency)
	require.Len(t, v.Unpriced, 1)
	assert.Equal(t, "RELIANCE.BO", v.Unpriced[0].Ticker)
	assert.Equal(t, map[string]string{"RELIANCE.BO": "INR"}, v.Foreign)
	assert.True(t, v.TotalValue.Equal(d("300")), v.TotalValue.String())
	assert.True(t, v.TotalCost.Equal(d("200")), v.TotalCost.String())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(d("1234.5"), "USD"))
	assert.Equal(t, "+12.35%", FormatPercent(d("12.345")))
	assert.Equal(t, "-1.00%", FormatPercent(d("-1")))
}

func TestSessions_EnsureAndSweep(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("USD")
	s.now = func() time.Time { return clock }

	id, p := s.Ensure("")
	require.NotEmpty(t, id)
	_, err := p.Add("AAPL", d("1"), d("1"))
	require.NoError(t, err)

	sameID, same := s.Ensure(id)
	assert.Equal(t, id, sameID)
	assert.Same(t, p, same)

	otherID, _ := s.Ensure("unknown-id")
	assert.NotEqual(t, "unknown-id", otherID)
	assert.Equal(t, 2, s.Len())

	clock = clock.Add(20 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok)

	clock = clock.Add(20 * time.Minute)
	assert.Equal(t, 1, s.Sweep(30*time.Minute))
	_, ok = s.Get(otherID)
	assert.False(t, ok)
	_, ok = s.Get(id)
	assert.True(t, ok)
}
