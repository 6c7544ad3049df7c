// Package format renders amounts for French-speaking readers. Values are
// rounded here and nowhere else.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// FCFA rounds to the franc and groups digits the French way,
// e.g. 1 250 000 FCFA.
func FCFA(amount float64) string {
	return printer.Sprintf("%d FCFA", int64(math.Round(amount)))
}

// Number groups digits the French way with at most one decimal.
func Number(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.1f", v)
}
