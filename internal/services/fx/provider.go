package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/logger"
	"fxwallet/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProviderConfig configures the exchangerate-api client.
type ProviderConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// ExchangeRateAPIProvider fetches latest rates from exchangerate-api v6.
// Failed attempts are retried with exponential backoff: BaseDelay, 2*BaseDelay, ...
type ExchangeRateAPIProvider struct {
	config     ProviderConfig
	httpClient *http.Client
	logger     *zap.Logger
	metrics    MetricsCollector
	sleep      func(ctx context.Context, d time.Duration) error
}

type latestRatesResponse struct {
	Result          string                 `json:"result"`
	ErrorType       string                 `json:"error-type"`
	BaseCode        string                 `json:"base_code"`
	ConversionRates map[string]json.Number `json:"conversion_rates"`
}

func NewExchangeRateAPIProvider(config ProviderConfig, log *zap.Logger, metrics MetricsCollector) *ExchangeRateAPIProvider {
	if config.Timeout <= 0 {
		config.Timeout = DefaultHTTPTimeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &ExchangeRateAPIProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger.OrNop(log).Named("fx.provider"),
		metrics: metrics,
		sleep:   sleepContext,
	}
}

func (p *ExchangeRateAPIProvider) Name() string {
	return ProviderExchangeRateAPI
}

// FetchRates returns the supported conversion rates for base. After
// MaxAttempts failures it returns ErrProviderUnavailable wrapping the last error.
func (p *ExchangeRateAPIProvider) FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error) {
	if p.config.APIKey == "" {
		return nil, apperrors.ErrProviderUnavailable.WithMessage("exchange rate api key is not configured")
	}

	var lastErr error
	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		rates, err := p.fetchOnce(ctx, base)
		if err == nil {
			p.metrics.RecordProviderAttempt(AttemptSuccess)
			return rates, nil
		}
		lastErr = err
		p.metrics.RecordProviderAttempt(AttemptFailure)
		p.logger.Warn("fx provider attempt failed",
			zap.String("base", string(base)),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.MaxAttempts),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
		if attempt < p.config.MaxAttempts {
			if err := p.sleep(ctx, p.backoff(attempt)); err != nil {
				lastErr = err
				break
			}
		}
	}
	return nil, apperrors.ErrProviderUnavailable.Wrap(lastErr)
}

// RetryBudget is the longest FetchRates can take: every attempt timing out
// plus every backoff between attempts.
func (p *ExchangeRateAPIProvider) RetryBudget() time.Duration {
	budget := time.Duration(p.config.MaxAttempts) * p.config.Timeout
	for attempt := 1; attempt < p.config.MaxAttempts; attempt++ {
		budget += p.backoff(attempt)
	}
	return budget
}

func (p *ExchangeRateAPIProvider) backoff(attempt int) time.Duration {
	return p.config.BaseDelay * time.Duration(1<<(attempt-1))
}

func (p *ExchangeRateAPIProvider) fetchOnce(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/%s/latest/%s", p.config.BaseURL, url.PathEscape(p.config.APIKey), base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The URL embeds the API key; report only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("provider returned %q: %s", body.Result, body.ErrorType)
	}

	rates := make(map[models.Currency]decimal.Decimal, len(body.ConversionRates))
	for code, raw := range body.ConversionRates {
		currency := models.Currency(code)
		if !currency.Valid() {
			continue
		}
		value, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("parse rate for %s: %w", code, err)
		}
		rates[currency] = value
	}
	return rates, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
