package analytics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultRateDecimals is used when a caller asks for a negative precision.
const DefaultRateDecimals = 2

// Formatter renders dashboard figures with thousands separators.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns an English formatter using the dollar symbol.
func NewFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English), symbol: "$"}
}

// Int rounds v and groups thousands, e.g. 233526 -> "233,526".
func (f *Formatter) Int(v float64) string {
	return f.printer.Sprintf("%d", int64(math.Round(Finite(v))))
}

// Decimal prints v with a fixed number of decimal places.
func (f *Formatter) Decimal(v float64, decimals int) string {
	if decimals < 0 {
		decimals = DefaultRateDecimals
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), Finite(v))
}

// Currency prints whole amounts without cents and everything else with two
// decimals: 1295 -> "$1,295", 445.5 -> "$445.50".
func (f *Formatter) Currency(v float64) string {
	v = Finite(v)
	if v == math.Trunc(v) {
		return f.symbol + f.Int(v)
	}
	return f.Money(v, 2)
}

// Money prints v with the currency symbol and a fixed precision.
func (f *Formatter) Money(v float64, decimals int) string {
	return f.symbol + f.Decimal(v, decimals)
}

// Percent prints v followed by a percent sign.
func (f *Formatter) Percent(v float64, decimals int) string {
	return f.Decimal(v, decimals) + "%"
}

// Rate is Percent with the default precision.
func (f *Formatter) Rate(v float64) string {
	return f.Percent(v, DefaultRateDecimals)
}
