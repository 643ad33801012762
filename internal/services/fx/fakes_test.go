package fx

import (
	"context"
	"sync"

	"fxwallet/internal/models"
	"fxwallet/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type memoryStore struct {
	mu    sync.Mutex
	rows  []models.FxRate
	reads int
}

func (s *memoryStore) FindLatest(_ context.Context, base, target models.Currency) (*models.FxRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	var latest *models.FxRate
	for i := range s.rows {
		row := s.rows[i]
		if row.BaseCurrency != base || row.TargetCurrency != target {
			continue
		}
		if latest == nil || row.ValidUntil.After(latest.ValidUntil) {
			latest = &row
		}
	}
	if latest == nil {
		return nil, repositories.ErrFxRateNotFound
	}
	return latest, nil
}

func (s *memoryStore) Create(_ context.Context, rate *models.FxRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *rate)
	return nil
}

func (s *memoryStore) count(base, target models.Currency) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.BaseCurrency == base && row.TargetCurrency == target {
			n++
		}
	}
	return n
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).(map[models.Currency]decimal.Decimal)
	return rates, args.Error(1)
}

type recordingMetrics struct {
	mu       sync.Mutex
	lookups  map[string]int
	attempts map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{lookups: map[string]int{}, attempts: map[string]int{}}
}

func (m *recordingMetrics) RecordRateLookup(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[source]++
}

func (m *recordingMetrics) RecordProviderAttempt(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[result]++
}
