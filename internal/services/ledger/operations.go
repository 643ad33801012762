package ledger

import (
	"context"
	"errors"
	"time"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"
	"fxwallet/internal/services/fx"
	"fxwallet/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fund credits amount to the user's balance in currency.
func (s *service) Fund(ctx context.Context, req OperationRequest) (*models.Transaction, error) {
	start := time.Now()
	tx, replayed, err := s.fund(ctx, req)
	s.finish(OpFund, start, replayed, err, operationFields(req.UserID, req.IdempotencyKey, tx)...)
	return tx, err
}

func (s *service) fund(ctx context.Context, req OperationRequest) (*models.Transaction, bool, error) {
	if err := validateOperation(req.UserID, req.Currency, req.Amount, req.IdempotencyKey); err != nil {
		return nil, false, err
	}
	if existing, err := s.findExisting(ctx, req.UserID, req.IdempotencyKey); err != nil || existing != nil {
		return existing, existing != nil, err
	}

	wallet, err := s.activeWallet(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}
	balance, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, req.Currency)
	if err != nil {
		return nil, false, mapRepoError(err)
	}

	record := &models.Transaction{
		WalletID:       wallet.ID,
		UserID:         req.UserID,
		Type:           models.TransactionTypeFund,
		FromCurrency:   req.Currency,
		ToCurrency:     req.Currency,
		FromAmount:     req.Amount,
		ToAmount:       req.Amount,
		Rate:           decimal.NewFromInt(1),
		Fee:            decimal.Zero,
		IdempotencyKey: req.IdempotencyKey,
	}
	return s.complete(ctx, []posting{credit(balance, req.Amount)}, record)
}

// Withdraw debits amount from the user's balance in currency.
func (s *service) Withdraw(ctx context.Context, req OperationRequest) (*models.Transaction, error) {
	start := time.Now()
	tx, replayed, err := s.withdraw(ctx, req)
	s.finish(OpWithdraw, start, replayed, err, operationFields(req.UserID, req.IdempotencyKey, tx)...)
	return tx, err
}

func (s *service) withdraw(ctx context.Context, req OperationRequest) (*models.Transaction, bool, error) {
	if err := validateOperation(req.UserID, req.Currency, req.Amount, req.IdempotencyKey); err != nil {
		return nil, false, err
	}
	if existing, err := s.findExisting(ctx, req.UserID, req.IdempotencyKey); err != nil || existing != nil {
		return existing, existing != nil, err
	}

	wallet, err := s.activeWallet(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}
	balance, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, req.Currency)
	if err != nil {
		return nil, false, mapRepoError(err)
	}
	if !CanDebit(balance.Balance, req.Amount) {
		return nil, false, insufficient(balance, req.Amount)
	}

	record := &models.Transaction{
		WalletID:       wallet.ID,
		UserID:         req.UserID,
		Type:           models.TransactionTypeWithdraw,
		FromCurrency:   req.Currency,
		ToCurrency:     req.Currency,
		FromAmount:     req.Amount,
		ToAmount:       req.Amount,
		Rate:           decimal.NewFromInt(1),
		Fee:            decimal.Zero,
		IdempotencyKey: req.IdempotencyKey,
	}
	return s.complete(ctx, []posting{debit(balance, req.Amount)}, record)
}

// Trade converts amount of From into To inside the user's wallet.
func (s *service) Trade(ctx context.Context, req TradeRequest) (*models.Transaction, error) {
	start := time.Now()
	tx, replayed, err := s.trade(ctx, req)
	s.finish(OpTrade, start, replayed, err,
		append(operationFields(req.UserID, req.IdempotencyKey, tx),
			zap.String("from", string(req.From)),
			zap.String("to", string(req.To)))...)
	return tx, err
}

func (s *service) trade(ctx context.Context, req TradeRequest) (*models.Transaction, bool, error) {
	if err := validateOperation(req.UserID, req.From, req.Amount, req.IdempotencyKey); err != nil {
		return nil, false, err
	}
	if err := validation.ValidateCurrency(req.To); err != nil {
		return nil, false, err
	}
	if req.From == req.To {
		return nil, false, apperrors.ErrInvalidTradePair
	}
	if existing, err := s.findExisting(ctx, req.UserID, req.IdempotencyKey); err != nil || existing != nil {
		return existing, existing != nil, err
	}

	wallet, err := s.activeWallet(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}

	// Resolved before any lock so a slow provider never holds balance rows.
	rate, err := s.rates.ResolveRate(ctx, req.From, req.To)
	if err != nil {
		return nil, false, err
	}
	if !rate.Rate.IsPositive() {
		return nil, false, apperrors.ErrInvalidRate
	}
	toAmount := fx.ConvertAmount(req.Amount, rate.Rate)
	if err := validation.ValidateAmount(toAmount); err != nil {
		return nil, false, apperrors.ErrInvalidAmount.WithMessage(
			"converted amount %s %s is outside the ledger range", toAmount, req.To)
	}

	fromBalance, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, req.From)
	if err != nil {
		return nil, false, mapRepoError(err)
	}
	toBalance, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, req.To)
	if err != nil {
		return nil, false, mapRepoError(err)
	}
	if !CanDebit(fromBalance.Balance, req.Amount) {
		return nil, false, insufficient(fromBalance, req.Amount)
	}

	record := &models.Transaction{
		WalletID:       wallet.ID,
		UserID:         req.UserID,
		Type:           models.TransactionTypeTrade,
		FromCurrency:   req.From,
		ToCurrency:     req.To,
		FromAmount:     req.Amount,
		ToAmount:       toAmount,
		Rate:           rate.Rate,
		Fee:            decimal.Zero,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       models.JSON{models.MetadataRateSource: rate.Source},
	}
	postings := []posting{
		debit(fromBalance, req.Amount),
		credit(toBalance, toAmount),
	}
	return s.complete(ctx, postings, record)
}

// Transfer moves amount between two users' balances in the same currency and
// returns the sender's record.
func (s *service) Transfer(ctx context.Context, req TransferRequest) (*models.Transaction, error) {
	start := time.Now()
	tx, replayed, err := s.transfer(ctx, req)
	s.finish(OpTransfer, start, replayed, err,
		append(operationFields(req.SenderUserID, req.IdempotencyKey, tx),
			zap.String("receiver_id", req.ReceiverUserID.String()))...)
	return tx, err
}

func (s *service) transfer(ctx context.Context, req TransferRequest) (*models.Transaction, bool, error) {
	if err := validateOperation(req.SenderUserID, req.Currency, req.Amount, req.IdempotencyKey); err != nil {
		return nil, false, err
	}
	if err := validation.ValidateUserID(req.ReceiverUserID); err != nil {
		return nil, false, err
	}
	if req.SenderUserID == req.ReceiverUserID {
		return nil, false, apperrors.ErrTransferToSelf
	}

	outKey := req.IdempotencyKey + models.TransferOutSuffix
	inKey := req.IdempotencyKey + models.TransferInSuffix
	if existing, err := s.findExisting(ctx, req.SenderUserID, outKey); err != nil || existing != nil {
		return existing, existing != nil, err
	}

	sender, err := s.activeWallet(ctx, req.SenderUserID)
	if err != nil {
		return nil, false, err
	}
	receiver, err := s.activeWallet(ctx, req.ReceiverUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return nil, false, apperrors.ErrWalletNotFound.WithMessage("recipient wallet not found")
		}
		if errors.Is(err, apperrors.ErrWalletInactive) {
			return nil, false, apperrors.ErrWalletInactive.WithMessage("recipient wallet is not active")
		}
		return nil, false, err
	}

	senderBalance, err := s.repo.GetOrCreateBalance(ctx, sender.ID, req.Currency)
	if err != nil {
		return nil, false, mapRepoError(err)
	}
	receiverBalance, err := s.repo.GetOrCreateBalance(ctx, receiver.ID, req.Currency)
	if err != nil {
		return nil, false, mapRepoError(err)
	}
	if !CanDebit(senderBalance.Balance, req.Amount) {
		return nil, false, insufficient(senderBalance, req.Amount)
	}

	out := &models.Transaction{
		WalletID:       sender.ID,
		UserID:         req.SenderUserID,
		Type:           models.TransactionTypeTransfer,
		FromCurrency:   req.Currency,
		ToCurrency:     req.Currency,
		FromAmount:     req.Amount,
		ToAmount:       req.Amount,
		Rate:           decimal.NewFromInt(1),
		Fee:            decimal.Zero,
		IdempotencyKey: outKey,
		Metadata:       models.JSON{models.MetadataToUserID: req.ReceiverUserID.String()},
	}
	in := &models.Transaction{
		WalletID:       receiver.ID,
		UserID:         req.ReceiverUserID,
		Type:           models.TransactionTypeTransfer,
		FromCurrency:   req.Currency,
		ToCurrency:     req.Currency,
		FromAmount:     req.Amount,
		ToAmount:       req.Amount,
		Rate:           decimal.NewFromInt(1),
		Fee:            decimal.Zero,
		IdempotencyKey: inKey,
		Metadata:       models.JSON{models.MetadataFromUserID: req.SenderUserID.String()},
	}
	postings := []posting{
		debit(senderBalance, req.Amount),
		credit(receiverBalance, req.Amount),
	}
	return s.complete(ctx, postings, out, in)
}

// complete commits the postings and records, then publishes them. The first
// record is the one returned to the caller.
func (s *service) complete(ctx context.Context, postings []posting, records ...*models.Transaction) (*models.Transaction, bool, error) {
	primary := records[0]
	if err := s.commit(ctx, postings, records...); err != nil {
		if errors.Is(err, repositories.ErrDuplicateIdempotencyKey) {
			winner, rerr := s.recoverDuplicate(ctx, primary.UserID, primary.IdempotencyKey)
			if rerr != nil {
				return nil, false, rerr
			}
			return winner, true, nil
		}
		return nil, false, err
	}

	committed := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		committed = append(committed, *r)
	}
	s.publish(ctx, committed)

	return s.reload(ctx, primary), false, nil
}

func (s *service) publish(ctx context.Context, txs []models.Transaction) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.PublishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, txs...); err != nil {
		s.logger.Warn("failed to publish transaction events",
			zap.String("transaction_id", txs[0].ID.String()),
			zap.Error(err))
	}
}

func validateOperation(userID uuid.UUID, currency models.Currency, amount decimal.Decimal, key string) error {
	if err := validation.ValidateUserID(userID); err != nil {
		return err
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		return err
	}
	if err := validation.ValidateAmount(amount); err != nil {
		return err
	}
	return validation.ValidateIdempotencyKey(key)
}

func insufficient(balance *models.WalletBalance, amount decimal.Decimal) error {
	return apperrors.ErrInsufficientBalance.WithMessage(
		"insufficient %s balance: have %s, need %s", balance.Currency, balance.Balance, amount)
}

func operationFields(userID uuid.UUID, key string, tx *models.Transaction) []zap.Field {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("idempotency_key", key),
	}
	if tx != nil {
		fields = append(fields, zap.String("transaction_id", tx.ID.String()))
	}
	return fields
}
