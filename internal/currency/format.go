package currency

import (
	"fmt"
	"math"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders an amount as a locale-appropriate currency string, e.g.
// "$1,234.50". Non-finite amounts render as 0. Codes the formatter does not
// know fall back to "<CODE> <amount to 2 decimals>".
func Format(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	return printer.Sprintf("%v", xcurrency.NarrowSymbol(unit.Amount(amount)))
}
