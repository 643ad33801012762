package ledger

import (
	"context"
	"time"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/logger"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"
	"fxwallet/internal/services/fx"
	"fxwallet/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repo      repositories.WalletRepository
	rates     RateResolver
	publisher Publisher
	config    Config
	metrics   MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new ledger service. publisher, metrics and log are optional.
func NewService(
	repo repositories.WalletRepository,
	rates RateResolver,
	publisher Publisher,
	config Config,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if rates == nil {
		panic("rate resolver is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = models.CurrencyNGN
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultPublishTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:      repo,
		rates:     rates,
		publisher: publisher,
		config:    config,
		metrics:   metrics,
		logger:    logger.OrNop(log).Named("ledger"),
	}
}

// OpenWallet creates the user's wallet with an empty default currency balance.
// Opening an existing wallet returns it unchanged.
func (s *service) OpenWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	start := time.Now()
	view, err := s.openWallet(ctx, userID)
	s.finish(OpOpenWallet, start, false, err, zap.String("user_id", userID.String()))
	return view, err
}

func (s *service) openWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return nil, err
	}
	wallet, err := s.repo.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if _, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, s.config.DefaultCurrency); err != nil {
		return nil, mapRepoError(err)
	}
	return s.walletView(ctx, wallet)
}

func (s *service) GetWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	start := time.Now()
	view, err := s.getWallet(ctx, userID)
	s.finish(OpGetWallet, start, false, err, zap.String("user_id", userID.String()))
	return view, err
}

func (s *service) getWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return nil, err
	}
	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.walletView(ctx, wallet)
}

func (s *service) walletView(ctx context.Context, wallet *models.Wallet) (*WalletView, error) {
	balances, err := s.repo.ListBalances(ctx, wallet.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &WalletView{Wallet: *wallet, Balances: balances}, nil
}

// GetBalance returns the user's balance in currency, creating a zero balance
// on first access.
func (s *service) GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	start := time.Now()
	balance, err := s.getBalance(ctx, userID, currency)
	s.finish(OpGetBalance, start, false, err,
		zap.String("user_id", userID.String()),
		zap.String("currency", string(currency)))
	return balance, err
}

func (s *service) getBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.WalletBalance, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	balance, err := s.repo.GetOrCreateBalance(ctx, wallet.ID, currency)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return balance, nil
}

// PreviewConversion prices a conversion without touching any balance.
func (s *service) PreviewConversion(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*fx.Conversion, error) {
	start := time.Now()
	conv, err := s.rates.Convert(ctx, from, to, amount)
	s.finish(OpPreview, start, false, err,
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return conv, err
}

// activeWallet loads the user's wallet and requires it to be ACTIVE.
func (s *service) activeWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !wallet.IsActive() {
		return nil, apperrors.ErrWalletInactive.WithMessage("wallet is %s", wallet.Status)
	}
	return wallet, nil
}

// finish records metrics and logs the outcome of an operation.
func (s *service) finish(op string, start time.Time, replayed bool, err error, fields ...zap.Field) {
	s.metrics.RecordOperationDuration(op, time.Since(start))

	if err == nil {
		result := ResultSuccess
		if replayed {
			result = ResultReplayed
			s.metrics.RecordIdempotentReplay(op)
		}
		s.metrics.RecordOperationResult(op, result)
		fields = append(fields, zap.String("op", op), zap.Bool("replayed", replayed))
		if isMutation(op) {
			s.logger.Info("ledger operation completed", fields...)
		} else {
			s.logger.Debug("ledger read completed", fields...)
		}
		return
	}

	code := apperrors.CodeOf(err)
	s.metrics.RecordOperationResult(op, ResultFailure)
	s.metrics.RecordError(op, code)

	fields = append(fields, zap.String("op", op), zap.String("code", code), zap.Error(err))
	de, _ := apperrors.As(err)
	if de == nil || de.Kind == apperrors.KindInternal {
		s.logger.Error("ledger operation failed", fields...)
		return
	}
	s.logger.Warn("ledger operation rejected", fields...)
}

func isMutation(op string) bool {
	switch op {
	case OpFund, OpWithdraw, OpTrade, OpTransfer, OpOpenWallet:
		return true
	}
	return false
}
