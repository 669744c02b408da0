// Package format renders money, percentages and plain numbers for labels and summaries.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CompactThreshold is the magnitude from which currency switches to compact notation
const CompactThreshold = 1_000_000

type compactUnit struct {
	scale  float64
	suffix string
}

var compactUnits = map[string][]compactUnit{
	"de": {{1e12, "Bio."}, {1e9, "Mrd."}, {1e6, "Mio."}},
	"en": {{1e12, "T"}, {1e9, "B"}, {1e6, "M"}},
}

// Formatter formats values for one locale and currency symbol
type Formatter struct {
	printer *message.Printer
	symbol  string
	units   []compactUnit
}

// NewFormatter builds a formatter for the given BCP 47 locale, e.g. "de-DE"
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}

	base, _ := tag.Base()
	units, ok := compactUnits[base.String()]
	if !ok {
		units = compactUnits["en"]
	}

	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
		units:   units,
	}
}

// Default is the de-DE / EUR formatter used across the application
var Default = NewFormatter("de-DE", "€")

// english groups plain numbers with commas regardless of the display locale
var english = message.NewPrinter(language.English)

// Currency formats a value with no fractional digits, e.g. "1.250.000 €"
func (f *Formatter) Currency(value float64) string {
	return f.printer.Sprintf("%.0f %s", value, f.symbol)
}

// CurrencyCompact switches to compact notation with one fractional digit
// at or above CompactThreshold, e.g. "1,3 Mio. €"
func (f *Formatter) CurrencyCompact(value float64) string {
	abs := math.Abs(value)
	if abs < CompactThreshold {
		return f.Currency(value)
	}

	for _, u := range f.units {
		if abs >= u.scale {
			return f.printer.Sprintf("%.1f %s %s", value/u.scale, u.suffix, f.symbol)
		}
	}
	return f.Currency(value)
}

// Percent formats a 0-1 ratio with one fractional digit, e.g. "12.5%"
func (f *Formatter) Percent(ratio float64) string {
	return english.Sprintf("%.1f%%", ratio*100)
}

// Currency formats with the default formatter
func Currency(value float64) string { return Default.Currency(value) }

// CurrencyCompact formats with the default formatter
func CurrencyCompact(value float64) string { return Default.CurrencyCompact(value) }

// Percent formats with the default formatter
func Percent(ratio float64) string { return Default.Percent(ratio) }

// Number formats a value with thousands grouping and a fixed number of decimals
func Number(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return english.Sprintf(fmt.Sprintf("%%.%df", decimals), value)
}
