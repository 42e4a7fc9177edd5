package catalog

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const euroSuffix = "\u00a0€"

var printer = message.NewPrinter(language.German)

// FormatPrice renders an amount the way German shops do, e.g. "1.234,50 €".
// Every view must use it so prices are byte-identical everywhere.
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(2).InexactFloat64()
	return printer.Sprint(number.Decimal(
		rounded,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	)) + euroSuffix
}
