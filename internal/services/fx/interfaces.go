package fx

import (
	"context"

	"fxwallet/internal/models"

	"github.com/shopspring/decimal"
)

// RateCache is the short lived cache in front of the rate store.
type RateCache interface {
	Get(ctx context.Context, base, target models.Currency) (*models.FxRate, bool, error)
	Set(ctx context.Context, rate *models.FxRate) error
	Invalidate(ctx context.Context, base, target models.Currency) error
}

// RateStore persists fetched rates.
type RateStore interface {
	FindLatest(ctx context.Context, base, target models.Currency) (*models.FxRate, error)
	Create(ctx context.Context, rate *models.FxRate) error
}

// Provider fetches the latest rates for base against every currency it knows.
// Currencies outside the supported set are dropped.
type Provider interface {
	Name() string
	FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error)
}

// MetricsCollector receives rate lookup telemetry.
type MetricsCollector interface {
	RecordRateLookup(source string)
	RecordProviderAttempt(result string)
}
