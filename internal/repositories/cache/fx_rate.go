package cache

import (
	"context"
	"fmt"
	"time"

	"fxwallet/internal/models"

	"github.com/shopspring/decimal"
)

// FxRateKey is the cache key for a currency pair.
func FxRateKey(base, target models.Currency) string {
	return fmt.Sprintf("fx:%s:%s", base, target)
}

type cachedRate struct {
	Rate       decimal.Decimal `json:"rate"`
	Source     string          `json:"source"`
	ValidUntil time.Time       `json:"validUntil"`
}

// FxRateCache is the short lived read-through layer in front of the fx_rates table.
type FxRateCache struct {
	store *CacheService
}

func NewFxRateCache(store *CacheService) *FxRateCache {
	return &FxRateCache{store: store}
}

// Get returns the cached rate for the pair. found is false on a miss.
func (c *FxRateCache) Get(ctx context.Context, base, target models.Currency) (*models.FxRate, bool, error) {
	var entry cachedRate
	found, err := c.store.Get(ctx, FxRateKey(base, target), &entry)
	if err != nil || !found {
		return nil, false, err
	}
	return &models.FxRate{
		BaseCurrency:   base,
		TargetCurrency: target,
		Rate:           entry.Rate,
		Source:         entry.Source,
		ValidUntil:     entry.ValidUntil,
	}, true, nil
}

// Set caches rate under the default TTL.
func (c *FxRateCache) Set(ctx context.Context, rate *models.FxRate) error {
	return c.store.Set(ctx, FxRateKey(rate.BaseCurrency, rate.TargetCurrency), cachedRate{
		Rate:       rate.Rate,
		Source:     rate.Source,
		ValidUntil: rate.ValidUntil,
	})
}

// Invalidate drops the cached rate for the pair.
func (c *FxRateCache) Invalidate(ctx context.Context, base, target models.Currency) error {
	return c.store.Delete(ctx, FxRateKey(base, target))
}
