package portfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount with the currency's symbol, separators and
// fraction digits, e.g. "$1,234.50".
func FormatMoney(amount decimal.Decimal, currency string) string {
	// to get a never nil currency the Money constructor is needed
	cur := *money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPercent renders a percentage with two decimals and a sign.
func FormatPercent(pct decimal.Decimal) string {
	s := pct.StringFixed(2) + "%"
	if pct.IsPositive() {
		return "+" + s
	}
	return s
}
