package repositories

import (
	"context"

	"fxwallet/internal/models"

	"github.com/google/uuid"
)

// WalletRepository is the balance store: wallets, per-currency balances and
// the transaction records written alongside them.
type WalletRepository interface {
	// Wallets
	GetWalletByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)

	// Balances
	GetBalance(ctx context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error)
	GetOrCreateBalance(ctx context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error)
	ListBalances(ctx context.Context, walletID uuid.UUID) ([]models.WalletBalance, error)
	// LockBalance reads a balance row and holds an exclusive lock on it until the
	// enclosing unit of work ends. Only meaningful inside ExecuteInTransaction.
	LockBalance(ctx context.Context, balanceID uuid.UUID) (*models.WalletBalance, error)
	UpdateBalance(ctx context.Context, balance *models.WalletBalance) error

	// Transactions
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	FindTransactionByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error)

	// ExecuteInTransaction runs fn in one atomic unit of work. All writes made
	// through the repository handed to fn commit together or not at all.
	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}
