package ledger

import "time"

// Operation names used in metrics and logs.
const (
	OpOpenWallet = "open_wallet"
	OpGetWallet  = "get_wallet"
	OpGetBalance = "get_balance"
	OpFund       = "fund"
	OpWithdraw   = "withdraw"
	OpTrade      = "trade"
	OpTransfer   = "transfer"
	OpPreview    = "preview_conversion"
)

// Operation results.
const (
	ResultSuccess  = "success"
	ResultReplayed = "replayed"
	ResultFailure  = "failure"
)

// BalanceScale is the number of fractional digits kept after every balance step.
const BalanceScale = 8

// DefaultPublishTimeout bounds how long a committed operation waits on its events.
const DefaultPublishTimeout = 2 * time.Second
