package validation

const (
	// AmountScale is the number of fractional digits an amount may carry.
	AmountScale = 8

	// MaxAmountDigits bounds the integer part so values fit numeric(20,8).
	MaxAmountDigits = 12

	MaxIdempotencyKeyLength = 100
)
