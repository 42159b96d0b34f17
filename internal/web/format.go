package web

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
)

var funcMap = template.FuncMap{
	"price":      fmtPrice,
	"num":        fmtNum,
	"signed":     func(v float64) string { return fmt.Sprintf("%+.2f", v) },
	"signedPct":  func(v float64) string { return fmt.Sprintf("%+.2f%%", v) },
	"volume":     fmtVolume,
	"opt":        fmtOpt,
	"colorClass": colorClass,
	"colorDec":   func(d decimal.Decimal) string { return colorClass(d.InexactFloat64()) },
	"money":      portfolio.FormatMoney,
	"pct":        portfolio.FormatPercent,
	"qty":        func(d decimal.Decimal) string { return d.String() },
	"date":       func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime":   func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
	"last":       lastValue,
	"sparkBar":   sparkBar,
	"join":       strings.Join,
}

func fmtPrice(val float64) string {
	if val == 0 || math.IsNaN(val) {
		return "-"
	}
	if val >= 10000 {
		return addCommas(fmt.Sprintf("%.0f", val))
	} else if val >= 1 {
		return addCommas(fmt.Sprintf("%.2f", val))
	}
	return fmt.Sprintf("%.4f", val)
}

func fmtNum(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f", val)
}

// fmtOpt formats an optional value, "-" when absent.
func fmtOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmtNum(*v)
}

func fmtVolume(val float64) string {
	switch {
	case math.IsNaN(val):
		return "-"
	case val >= 1e9:
		return fmt.Sprintf("%.2fB", val/1e9)
	case val >= 1e6:
		return fmt.Sprintf("%.2fM", val/1e6)
	case val >= 1e3:
		return fmt.Sprintf("%.1fK", val/1e3)
	}
	return fmt.Sprintf("%.0f", val)
}

func addCommas(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ".")
	integer := parts[0]
	var result []byte
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	out := string(result)
	if len(parts) > 1 {
		out += "." + parts[1]
	}
	if neg {
		out = "-" + out
	}
	return out
}

func colorClass(val float64) string {
	if val > 0 {
		return "positive"
	} else if val < 0 {
		return "negative"
	}
	return "neutral"
}

func lastValue(s model.IndicatorSeries) string {
	v, ok := s.Last()
	if !ok {
		return "-"
	}
	return fmtNum(v)
}

func sparkBar(val float64) template.HTML {
	width := math.Min(math.Abs(val)*8, 50)
	if width < 2 {
		width = 2
	}
	color := "#16a34a"
	if val < 0 {
		color = "#dc2626"
	}
	return template.HTML(fmt.Sprintf(
		`<span class="bar" style="width:%.0fpx;background:%s"></span>`, width, color))
}
