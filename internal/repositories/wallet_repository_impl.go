package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxwallet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewWalletRepository returns a gorm backed WalletRepository. lockTimeout bounds
// how long a unit of work waits for a row lock on postgres; zero disables it.
func NewWalletRepository(db *gorm.DB, lockTimeout time.Duration) WalletRepository {
	return &walletRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (r *walletRepository) GetWalletByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// EnsureWallet creates the user's wallet if it does not exist yet. Concurrent
// callers converge on the same row.
func (r *walletRepository) EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID, Status: models.WalletStatusActive}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(wallet).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", translateError(err))
	}
	return r.GetWalletByUserID(ctx, userID)
}

func (r *walletRepository) GetBalance(ctx context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	var balance models.WalletBalance
	err := r.db.WithContext(ctx).
		Where("wallet_id = ? AND currency = ?", walletID, currency).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// GetOrCreateBalance returns the (wallet, currency) row, inserting a zero row
// first when needed. Racing inserts are absorbed by the unique index.
func (r *walletRepository) GetOrCreateBalance(ctx context.Context, walletID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	balance, err := r.GetBalance(ctx, walletID, currency)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, ErrBalanceNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet_id"}, {Name: "currency"}},
			DoNothing: true,
		}).
		Create(models.NewWalletBalance(walletID, currency)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", translateError(err))
	}
	return r.GetBalance(ctx, walletID, currency)
}

func (r *walletRepository) ListBalances(ctx context.Context, walletID uuid.UUID) ([]models.WalletBalance, error) {
	var balances []models.WalletBalance
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("currency ASC").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}

func (r *walletRepository) LockBalance(ctx context.Context, balanceID uuid.UUID) (*models.WalletBalance, error) {
	var balance models.WalletBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", balanceID).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to lock balance: %w", translateError(err))
	}
	return &balance, nil
}

func (r *walletRepository) UpdateBalance(ctx context.Context, balance *models.WalletBalance) error {
	result := r.db.WithContext(ctx).Model(&models.WalletBalance{}).
		Where("id = ?", balance.ID).
		Updates(map[string]interface{}{
			"balance":        balance.Balance,
			"locked_balance": balance.LockedBalance,
			"updated_at":     r.db.NowFunc(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, ErrDuplicateKey) {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) FindTransactionByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		Take(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *walletRepository) ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		txRepo := &walletRepository{db: tx, lockTimeout: r.lockTimeout}
		return fn(txRepo)
	})
	return translateError(err)
}
