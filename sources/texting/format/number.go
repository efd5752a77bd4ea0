package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var en = message.NewPrinter(language.English)

func Numberify(value int64) string {
	return en.Sprintf("%d", value)
}

// Decimalify renders an upstream per-million style figure with two
// fractional digits.
func Decimalify(value decimal.Decimal) string {
	return en.Sprintf("%.2f", value.InexactFloat64())
}

// Percentify renders a 0..1 ratio as a percentage with one decimal.
func Percentify(ratio float64) string {
	return en.Sprintf("%.1f%%", ratio*100)
}
