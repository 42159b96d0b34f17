package portfolio

import (
	"strings"

	"github.com/shopspring/decimal"

	"StockTracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Valuate prices every entry. Entries whose ticker has no price, or a price
// quoted in another currency, are listed in Unpriced and left out of the totals.
func Valuate(entries []model.PortfolioEntry, prices map[string]model.Price, currency string) model.Valuation {
	v := model.Valuation{
		Currency:   currency,
		TotalValue: decimal.Zero,
		TotalCost:  decimal.Zero,
		TotalGain:  decimal.Zero,
		ReturnPct:  decimal.Zero,
	}
	for _, e := range entries {
		quoted, ok := prices[e.Ticker]
		if !ok {
			v.Unpriced = append(v.Unpriced, e)
			continue
		}
		if quoted.Currency != "" && !strings.EqualFold(quoted.Currency, currency) {
			if v.Foreign == nil {
				v.Foreign = make(map[string]string)
			}
			v.Foreign[e.Ticker] = strings.ToUpper(quoted.Currency)
			v.Unpriced = append(v.Unpriced, e)
			continue
		}
		price := quoted.Amount
		h := model.Holding{
			Entry:       e,
			Price:       price,
			Currency:    currency,
			MarketValue: e.Quantity.Mul(price),
			Cost:        e.Quantity.Mul(e.CostBasis),
			Weight:      decimal.Zero,
		}
		h.Gain = h.MarketValue.Sub(h.Cost)
		h.ReturnPct = percentOf(h.Gain, h.Cost)
		v.Holdings = append(v.Holdings, h)

		v.TotalValue = v.TotalValue.Add(h.MarketValue)
		v.TotalCost = v.TotalCost.Add(h.Cost)
	}
	v.TotalGain = v.TotalValue.Sub(v.TotalCost)
	v.ReturnPct = percentOf(v.TotalGain, v.TotalCost)
	for i := range v.Holdings {
		v.Holdings[i].Weight = percentOf(v.Holdings[i].MarketValue, v.TotalValue)
	}
	return v
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 4)
}
