/*
Package fx resolves exchange rates between supported wallet currencies.

Rates are looked up in three tiers: the Redis cache, the fx_rates table and
finally the upstream provider. A fetched rate is persisted with a validity
window and cached, so the provider is only consulted when no unexpired rate
is known. Concurrent misses for the same pair share one upstream fetch.

Usage:

	provider := fx.NewExchangeRateAPIProvider(fx.ProviderConfig{
	    BaseURL:     cfg.Fx.APIBaseURL,
	    APIKey:      cfg.Fx.APIKey,
	    Timeout:     cfg.Fx.HTTPTimeout,
	    MaxAttempts: cfg.Fx.MaxAttempts,
	    BaseDelay:   cfg.Fx.RetryDelay,
	}, logger, metrics)

	resolver := fx.NewResolver(rateCache, rateRepo, provider, fx.Config{
	    RateValidity: cfg.Fx.RateValidity,
	}, metrics, logger)

	conv, err := resolver.Convert(ctx, models.CurrencyNGN, models.CurrencyUSD, amount)

Errors:

  - ErrInvalidCurrency: a currency outside the supported set
  - ErrRateNotFound: the provider answered but has no rate for the target
  - ErrProviderUnavailable: every provider attempt failed (retryable)
  - ErrInvalidRate: the provider returned a non-positive rate
*/
package fx
