package validation

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency validates an ISO 4217 currency code. It accepts any so it
// can be used directly as a prompt validator.
func ValidateCurrency(val any) error {
	var currency string
	switch v := val.(type) {
	case string:
		currency = v
	default:
		return fmt.Errorf("currency code must be a string")
	}

	currency = NormalizeCurrency(currency)

	if currency == "" {
		return fmt.Errorf("currency code is required")
	}

	if len(currency) != 3 {
		return fmt.Errorf("currency code must be 3 characters (e.g. USD)")
	}

	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("currency code must contain only letters")
		}
	}

	if money.GetCurrency(currency) == nil {
		return fmt.Errorf("unknown currency code '%s'", currency)
	}

	return nil
}
