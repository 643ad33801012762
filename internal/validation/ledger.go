package validation

import (
	"regexp"
	"strings"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var idempotencyKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_\-:.]+$`)

// Amount checks that a parsed amount is positive and representable at ledger precision.
func (v *Validator) Amount(field string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		v.AddError(field, "must be greater than zero")
		return
	}
	v.Check(amount.Equal(amount.Truncate(AmountScale)), field, "must have at most 8 decimal places")
	v.Check(WithinAmountDigits(amount), field, "is too large")
}

// WithinAmountDigits reports whether the integer part of d fits the ledger's
// numeric(20,8) columns.
func WithinAmountDigits(d decimal.Decimal) bool {
	return len(d.Truncate(0).Abs().String()) <= MaxAmountDigits
}

// Currency checks membership in the supported currency set.
func (v *Validator) Currency(field string, c models.Currency) {
	v.Check(c.Valid(), field, "must be one of NGN, USD, EUR, GBP")
}

// IdempotencyKey checks a client supplied operation key.
func (v *Validator) IdempotencyKey(field, key string) {
	if strings.TrimSpace(key) == "" {
		v.AddError(field, "must not be empty")
		return
	}
	v.MaxLength(field, key, MaxIdempotencyKeyLength)
	v.Check(idempotencyKeyRegex.MatchString(key), field, "may only contain letters, digits and _-:.")
}

// ParseAmount parses a decimal string and validates it as a ledger amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperrors.ErrInvalidAmount.Wrap(err)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount returns ErrInvalidAmount when amount is not a valid ledger amount.
func ValidateAmount(amount decimal.Decimal) error {
	v := New()
	v.Amount("amount", amount)
	if !v.Valid() {
		return apperrors.ErrInvalidAmount.WithMessage("amount %s", v.Errors["amount"])
	}
	return nil
}

// ValidateCurrency returns ErrInvalidCurrency for codes outside the supported set.
func ValidateCurrency(c models.Currency) error {
	if !c.Valid() {
		return apperrors.ErrInvalidCurrency.WithMessage("unsupported currency %q", string(c))
	}
	return nil
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(raw string) (models.Currency, error) {
	c, ok := models.ParseCurrency(raw)
	if !ok {
		return "", apperrors.ErrInvalidCurrency.WithMessage("unsupported currency %q", raw)
	}
	return c, nil
}

// ValidateIdempotencyKey returns ErrInvalidIdempotencyKey for malformed keys.
func ValidateIdempotencyKey(key string) error {
	v := New()
	v.IdempotencyKey("idempotencyKey", key)
	if !v.Valid() {
		return apperrors.ErrInvalidIdempotencyKey.WithMessage("idempotency key %s", v.Errors["idempotencyKey"])
	}
	return nil
}

// ValidateUserID rejects the nil UUID.
func ValidateUserID(id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.ErrInvalidUser
	}
	return nil
}
