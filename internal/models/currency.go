package models

import "strings"

// Currency is an ISO 4217 code from the closed set of currencies a wallet can hold.
type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var supportedCurrencies = []Currency{CurrencyNGN, CurrencyUSD, CurrencyEUR, CurrencyGBP}

// SupportedCurrencies returns the currencies wallets can hold, in display order.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// Valid reports whether c belongs to the supported set.
func (c Currency) Valid() bool {
	for _, s := range supportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes a user supplied code and checks it against the supported set.
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	return c, c.Valid()
}
