package errors

var (
	ErrRateNotFound = newError(KindNotFound, "FX_RATE_NOT_FOUND", "exchange rate not available for currency pair")
	ErrInvalidRate  = newError(KindInternal, "INVALID_FX_RATE", "exchange rate must be positive")

	ErrProviderUnavailable = &DomainError{
		Code:      "FX_PROVIDER_UNAVAILABLE",
		Message:   "exchange rate provider unavailable",
		Kind:      KindUnavailable,
		Retryable: true,
	}
)
