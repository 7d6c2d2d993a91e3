package render

import (
	"encoding/json"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats numbers with English digit grouping.
var printer = message.NewPrinter(language.English)

// formatNumber renders v grouped by thousands with at most maxFraction
// fractional digits and no trailing zeros.
func formatNumber(v float64, maxFraction int) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFraction)))
}

// toFloat converts a decoded JSON number to float64. Non-numeric and
// non-finite values report false.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
