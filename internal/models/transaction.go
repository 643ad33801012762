package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType names the ledger operation that produced a record.
type TransactionType string

const (
	TransactionTypeFund     TransactionType = "FUND"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTrade    TransactionType = "TRADE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus of a ledger record. The ledger only ever persists COMPLETED rows;
// failed operations roll back and leave nothing behind.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Idempotency key suffixes linking the two rows of a transfer.
const (
	TransferOutSuffix = "_OUT"
	TransferInSuffix  = "_IN"
)

// Metadata keys used on transfer rows to reference the counterparty.
const (
	MetadataToUserID   = "toUserId"
	MetadataFromUserID = "fromUserId"
	MetadataRateSource = "rateSource"
)

// Transaction is an immutable ledger entry. (UserID, IdempotencyKey) identifies
// exactly one executed operation.
type Transaction struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"walletId"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_user_idempotency,priority:1" json:"userId"`
	Type           TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Status         TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	FromCurrency   Currency          `gorm:"type:varchar(3);not null" json:"fromCurrency"`
	ToCurrency     Currency          `gorm:"type:varchar(3);not null" json:"toCurrency"`
	FromAmount     decimal.Decimal   `gorm:"type:numeric(20,8);not null" json:"fromAmount"`
	ToAmount       decimal.Decimal   `gorm:"type:numeric(20,8);not null" json:"toAmount"`
	Rate           decimal.Decimal   `gorm:"type:numeric(20,8);not null" json:"rate"`
	Fee            decimal.Decimal   `gorm:"type:numeric(20,8);not null" json:"fee"`
	IdempotencyKey string            `gorm:"type:varchar(128);not null;uniqueIndex:idx_transactions_user_idempotency,priority:2" json:"idempotencyKey"`
	Metadata       JSON              `gorm:"type:jsonb" json:"metadata,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
