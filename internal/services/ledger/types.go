package ledger

import (
	"time"

	"fxwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationRequest funds or withdraws a single currency balance.
type OperationRequest struct {
	UserID         uuid.UUID
	Currency       models.Currency
	Amount         decimal.Decimal
	IdempotencyKey string
}

// TradeRequest converts Amount of From into To at the server resolved rate.
type TradeRequest struct {
	UserID         uuid.UUID
	From           models.Currency
	To             models.Currency
	Amount         decimal.Decimal
	IdempotencyKey string
}

// TransferRequest moves Amount of Currency from one user's wallet to another's.
type TransferRequest struct {
	SenderUserID   uuid.UUID
	ReceiverUserID uuid.UUID
	Currency       models.Currency
	Amount         decimal.Decimal
	IdempotencyKey string
}

// WalletView is a wallet together with every balance it holds.
type WalletView struct {
	Wallet   models.Wallet          `json:"wallet"`
	Balances []models.WalletBalance `json:"balances"`
}

// Config holds optional service settings.
type Config struct {
	// DefaultCurrency is opened alongside every new wallet.
	DefaultCurrency models.Currency
	// Now stamps CompletedAt. Defaults to UTC wall clock at microsecond precision.
	Now func() time.Time
	// PublishTimeout bounds post-commit event publishing. Defaults to DefaultPublishTimeout.
	PublishTimeout time.Duration
}
