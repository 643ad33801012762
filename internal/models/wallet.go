package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletStatus gates whether a wallet may take part in balance mutations.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
	WalletStatusLocked    WalletStatus = "LOCKED"
)

// Wallet is the per-user container of currency balances. Exactly one exists per user.
type Wallet struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Status    WalletStatus `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Status == "" {
		w.Status = WalletStatusActive
	}
	return nil
}

// IsActive reports whether the wallet may be debited or credited.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// WalletBalance is the amount a wallet holds in one currency.
// Balance is never negative once an operation commits.
type WalletBalance struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_balances_wallet_currency,priority:1" json:"walletId"`
	Currency      Currency        `gorm:"type:varchar(3);not null;uniqueIndex:idx_wallet_balances_wallet_currency,priority:2" json:"currency"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"balance"`
	LockedBalance decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"lockedBalance"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (b *WalletBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// NewWalletBalance returns an empty balance row for the given wallet and currency.
func NewWalletBalance(walletID uuid.UUID, currency Currency) *WalletBalance {
	return &WalletBalance{
		ID:            uuid.New(),
		WalletID:      walletID,
		Currency:      currency,
		Balance:       decimal.Zero,
		LockedBalance: decimal.Zero,
	}
}
