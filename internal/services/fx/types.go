package fx

import (
	"time"

	"fxwallet/internal/models"

	"github.com/shopspring/decimal"
)

// Config controls how long fetched rates stay usable.
type Config struct {
	RateValidity time.Duration
	// Now is the clock used for validity checks. Defaults to time.Now in UTC.
	Now func() time.Time
	// LoadTimeout bounds a shared cache-miss load, which outlives any single
	// caller's context. Defaults to DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// Conversion is a priced amount in another currency. Nothing is persisted
// for a conversion and it moves no funds.
type Conversion struct {
	From       models.Currency `json:"from"`
	To         models.Currency `json:"to"`
	Rate       decimal.Decimal `json:"rate"`
	Source     string          `json:"source"`
	FromAmount decimal.Decimal `json:"fromAmount"`
	ToAmount   decimal.Decimal `json:"toAmount"`
	ValidUntil time.Time       `json:"validUntil"`
}

// ConvertAmount prices amount at rate, rounded to ledger precision.
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(RateScale)
}
