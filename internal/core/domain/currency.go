package domain

import "slices"

// SupportedCurrencies is the static allow-list of transaction currencies.
var SupportedCurrencies = []string{"INR"}

// ValidateTransactionCurrency fails unless currency is supported.
func ValidateTransactionCurrency(currency string) error {
	if !slices.Contains(SupportedCurrencies, currency) {
		return NewUnsupportedCurrencyError(currency)
	}
	return nil
}
