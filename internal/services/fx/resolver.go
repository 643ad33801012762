package fx

import (
	"context"
	"errors"
	"time"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/logger"
	"fxwallet/internal/models"
	"fxwallet/internal/repositories"
	"fxwallet/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Resolver answers "how many units of B for one unit of A" from the cache,
// the rate store or the provider, in that order.
type Resolver struct {
	cache    RateCache
	store    RateStore
	provider Provider
	config   Config
	metrics  MetricsCollector
	logger   *zap.Logger
	group    singleflight.Group
}

// NewResolver wires a resolver. cache may be nil, in which case every lookup
// goes to the store.
func NewResolver(
	cache RateCache,
	store RateStore,
	provider Provider,
	config Config,
	metrics MetricsCollector,
	log *zap.Logger,
) *Resolver {
	if store == nil {
		panic("rate store is required")
	}
	if provider == nil {
		panic("rate provider is required")
	}
	if config.RateValidity <= 0 {
		config.RateValidity = DefaultRateValidity
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC() }
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = DefaultLoadTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &Resolver{
		cache:    cache,
		store:    store,
		provider: provider,
		config:   config,
		metrics:  metrics,
		logger:   logger.OrNop(log).Named("fx"),
	}
}

// ResolveRate returns an unexpired rate for from→to. The identity pair is
// always 1 and never touches storage or the provider.
func (r *Resolver) ResolveRate(ctx context.Context, from, to models.Currency) (*models.FxRate, error) {
	if err := validation.ValidateCurrency(from); err != nil {
		return nil, err
	}
	if err := validation.ValidateCurrency(to); err != nil {
		return nil, err
	}

	now := r.config.Now()
	if from == to {
		r.metrics.RecordRateLookup(SourceIdentity)
		return &models.FxRate{
			BaseCurrency:   from,
			TargetCurrency: to,
			Rate:           decimal.NewFromInt(1),
			Source:         SourceIdentity,
			ValidUntil:     now.Add(r.config.RateValidity),
		}, nil
	}

	if rate, ok := r.fromCache(ctx, from, to, now); ok {
		r.metrics.RecordRateLookup(SourceCache)
		return rate, nil
	}

	// The shared load is detached from ctx so one caller giving up does not
	// fail the others waiting on the same pair.
	ch := r.group.DoChan(string(from)+":"+string(to), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.LoadTimeout)
		defer cancel()
		return r.load(loadCtx, from, to)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rate := *(res.Val.(*models.FxRate))
		return &rate, nil
	}
}

// Convert prices amount of from in to. It has no side effects on balances.
func (r *Resolver) Convert(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*Conversion, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return nil, err
	}
	rate, err := r.ResolveRate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Conversion{
		From:       from,
		To:         to,
		Rate:       rate.Rate,
		Source:     rate.Source,
		FromAmount: amount,
		ToAmount:   ConvertAmount(amount, rate.Rate),
		ValidUntil: rate.ValidUntil,
	}, nil
}

// GetAllRates resolves base against every other supported currency.
func (r *Resolver) GetAllRates(ctx context.Context, base models.Currency) ([]models.FxRate, error) {
	if err := validation.ValidateCurrency(base); err != nil {
		return nil, err
	}
	var rates []models.FxRate
	for _, target := range models.SupportedCurrencies() {
		if target == base {
			continue
		}
		rate, err := r.ResolveRate(ctx, base, target)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, nil
}

func (r *Resolver) fromCache(ctx context.Context, from, to models.Currency, now time.Time) (*models.FxRate, bool) {
	if r.cache == nil {
		return nil, false
	}
	rate, found, err := r.cache.Get(ctx, from, to)
	if err != nil {
		r.logger.Warn("fx cache read failed", zap.String("pair", string(from)+"/"+string(to)), zap.Error(err))
		return nil, false
	}
	if !found || rate.IsExpired(now) {
		return nil, false
	}
	if !rate.Rate.IsPositive() {
		r.logger.Warn("dropping non-positive cached fx rate",
			zap.String("pair", string(from)+"/"+string(to)),
			zap.String("rate", rate.Rate.String()))
		if err := r.cache.Invalidate(ctx, from, to); err != nil {
			r.logger.Warn("fx cache invalidate failed", zap.String("pair", string(from)+"/"+string(to)), zap.Error(err))
		}
		return nil, false
	}
	return rate, true
}

// load runs once per pair for all concurrent cache misses.
func (r *Resolver) load(ctx context.Context, from, to models.Currency) (*models.FxRate, error) {
	now := r.config.Now()

	stored, err := r.store.FindLatest(ctx, from, to)
	switch {
	case err == nil && !stored.IsExpired(now):
		r.writeCache(ctx, stored)
		r.metrics.RecordRateLookup(SourceStore)
		return stored, nil
	case err != nil && !errors.Is(err, repositories.ErrFxRateNotFound):
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	fetched, err := r.provider.FetchRates(ctx, from)
	if err != nil {
		return nil, err
	}

	validUntil := now.Add(r.config.RateValidity)
	var result *models.FxRate
	for _, target := range models.SupportedCurrencies() {
		value, ok := fetched[target]
		if !ok || target == from {
			continue
		}
		if !value.IsPositive() {
			r.logger.Warn("provider returned non-positive rate",
				zap.String("pair", string(from)+"/"+string(target)),
				zap.String("rate", value.String()))
			if target == to {
				return nil, apperrors.ErrInvalidRate.WithMessage("invalid rate %s for %s/%s", value, from, to)
			}
			continue
		}

		rate := &models.FxRate{
			BaseCurrency:   from,
			TargetCurrency: target,
			Rate:           value.Round(RateScale),
			Source:         r.provider.Name(),
			ValidUntil:     validUntil,
		}
		if err := r.store.Create(ctx, rate); err != nil {
			r.logger.Warn("failed to persist fx rate", zap.String("pair", string(from)+"/"+string(target)), zap.Error(err))
		}
		r.writeCache(ctx, rate)
		if target == to {
			result = rate
		}
	}

	if result == nil {
		return nil, apperrors.ErrRateNotFound.WithMessage("no rate for %s/%s", from, to)
	}
	r.metrics.RecordRateLookup(r.provider.Name())
	r.logger.Info("fx rate refreshed",
		zap.String("pair", string(from)+"/"+string(to)),
		zap.String("rate", result.Rate.String()),
		zap.Time("valid_until", result.ValidUntil))
	return result, nil
}

func (r *Resolver) writeCache(ctx context.Context, rate *models.FxRate) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, rate); err != nil {
		r.logger.Warn("fx cache write failed",
			zap.String("pair", string(rate.BaseCurrency)+"/"+string(rate.TargetCurrency)),
			zap.Error(err))
	}
}
