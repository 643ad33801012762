package errors

var (
	ErrInvalidAmount         = newError(KindValidation, "INVALID_AMOUNT", "amount must be a positive decimal with at most 8 fractional digits")
	ErrInvalidCurrency       = newError(KindValidation, "INVALID_CURRENCY", "unsupported currency")
	ErrInvalidIdempotencyKey = newError(KindValidation, "INVALID_IDEMPOTENCY_KEY", "invalid idempotency key")
	ErrInvalidTradePair      = newError(KindValidation, "INVALID_TRADE_PAIR", "cannot trade a currency for itself")
	ErrTransferToSelf        = newError(KindValidation, "TRANSFER_SELF", "cannot transfer to yourself")
	ErrInvalidUser           = newError(KindValidation, "INVALID_USER", "invalid user id")

	ErrWalletNotFound      = newError(KindNotFound, "WALLET_NOT_FOUND", "wallet not found")
	ErrWalletInactive      = newError(KindBusiness, "WALLET_INACTIVE", "wallet is not active")
	ErrInsufficientBalance = newError(KindBusiness, "INSUFFICIENT_BALANCE", "insufficient wallet balance")

	ErrIdempotencyConflict = newError(KindConflict, "IDEMPOTENCY_KEY_CONFLICT", "idempotency key already used by a different operation")

	ErrLockTimeout = &DomainError{
		Code:      "LOCK_TIMEOUT",
		Message:   "balance is busy, retry later",
		Kind:      KindUnavailable,
		Retryable: true,
	}
)
