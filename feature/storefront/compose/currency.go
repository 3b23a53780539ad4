package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// CurrencySymbol returns the narrow symbol of an ISO 4217 code, e.g. "$" for USD.
// Unknown codes are returned as given.
func CurrencySymbol(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return fmt.Sprint(currency.NarrowSymbol(unit))
}
