// Package events announces committed ledger transactions to downstream consumers.
package events

import (
	"context"
	"time"

	"fxwallet/internal/models"

	"github.com/shopspring/decimal"
)

const EventTransactionCompleted = "transaction.completed"

// TransactionEvent is the wire form of a committed ledger record.
type TransactionEvent struct {
	EventType       string                 `json:"event_type"`
	TransactionID   string                 `json:"transaction_id"`
	WalletID        string                 `json:"wallet_id"`
	UserID          string                 `json:"user_id"`
	TransactionType string                 `json:"transaction_type"`
	Status          string                 `json:"status"`
	FromCurrency    string                 `json:"from_currency"`
	ToCurrency      string                 `json:"to_currency"`
	FromAmount      decimal.Decimal        `json:"from_amount"`
	ToAmount        decimal.Decimal        `json:"to_amount"`
	Rate            decimal.Decimal        `json:"rate"`
	Fee             decimal.Decimal        `json:"fee"`
	IdempotencyKey  string                 `json:"idempotency_key"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
}

// NewTransactionEvent builds the completion event for tx.
func NewTransactionEvent(tx models.Transaction) TransactionEvent {
	ts := tx.CreatedAt
	if tx.CompletedAt != nil {
		ts = *tx.CompletedAt
	}
	return TransactionEvent{
		EventType:       EventTransactionCompleted,
		TransactionID:   tx.ID.String(),
		WalletID:        tx.WalletID.String(),
		UserID:          tx.UserID.String(),
		TransactionType: string(tx.Type),
		Status:          string(tx.Status),
		FromCurrency:    string(tx.FromCurrency),
		ToCurrency:      string(tx.ToCurrency),
		FromAmount:      tx.FromAmount,
		ToAmount:        tx.ToAmount,
		Rate:            tx.Rate,
		Fee:             tx.Fee,
		IdempotencyKey:  tx.IdempotencyKey,
		Metadata:        tx.Metadata,
		Timestamp:       ts,
	}
}

// Publisher delivers transaction events. Implementations are safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, txs ...models.Transaction) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...models.Transaction) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }
