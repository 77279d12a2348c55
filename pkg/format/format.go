// Package format holds the presentation helpers used at the HTTP
// boundary. Nothing in here carries business meaning; prices and dates
// are computed elsewhere and only rendered for the Spanish-language UI.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatPrice renders a whole-unit amount in the given ISO currency,
// e.g. FormatPrice(460, "MXN") -> "MXN 460.00" in es-MX digits.
func FormatPrice(amount int64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return fmt.Sprintf("%s %d", currencyCode, amount)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(float64(amount))))
}

// FormatDateSpanish renders a date as the portal shows it: "15 de enero de 2024".
func FormatDateSpanish(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
