package handlers

import (
	"context"

	"fxwallet/internal/models"
	"fxwallet/internal/services/fx"
	"fxwallet/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) OpenWallet(ctx context.Context, userID uuid.UUID) (*ledger.WalletView, error) {
	args := m.Called(ctx, userID)
	view, _ := args.Get(0).(*ledger.WalletView)
	return view, args.Error(1)
}

func (m *MockLedger) GetWallet(ctx context.Context, userID uuid.UUID) (*ledger.WalletView, error) {
	args := m.Called(ctx, userID)
	view, _ := args.Get(0).(*ledger.WalletView)
	return view, args.Error(1)
}

func (m *MockLedger) GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	args := m.Called(ctx, userID, currency)
	balance, _ := args.Get(0).(*models.WalletBalance)
	return balance, args.Error(1)
}

func (m *MockLedger) Fund(ctx context.Context, req ledger.OperationRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockLedger) Withdraw(ctx context.Context, req ledger.OperationRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockLedger) Trade(ctx context.Context, req ledger.TradeRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, req ledger.TransferRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockLedger) PreviewConversion(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*fx.Conversion, error) {
	args := m.Called(ctx, from, to, amount)
	conv, _ := args.Get(0).(*fx.Conversion)
	return conv, args.Error(1)
}

type MockRates struct {
	mock.Mock
}

func (m *MockRates) GetAllRates(ctx context.Context, base models.Currency) ([]models.FxRate, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).([]models.FxRate)
	return rates, args.Error(1)
}
