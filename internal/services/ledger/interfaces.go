package ledger

import (
	"context"
	"time"

	"fxwallet/internal/models"
	"fxwallet/internal/services/fx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the ledger's public surface.
type Service interface {
	// Wallets
	OpenWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.WalletBalance, error)

	// Money movement
	Fund(ctx context.Context, req OperationRequest) (*models.Transaction, error)
	Withdraw(ctx context.Context, req OperationRequest) (*models.Transaction, error)
	Trade(ctx context.Context, req TradeRequest) (*models.Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (*models.Transaction, error)

	// Pricing
	PreviewConversion(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*fx.Conversion, error)
}

// RateResolver prices one currency in another.
type RateResolver interface {
	ResolveRate(ctx context.Context, from, to models.Currency) (*models.FxRate, error)
	Convert(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*fx.Conversion, error)
}

// Publisher announces committed transactions. Failures never undo a commit.
type Publisher interface {
	Publish(ctx context.Context, txs ...models.Transaction) error
}

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordIdempotentReplay(operation string)
	RecordError(operation, code string)
}
