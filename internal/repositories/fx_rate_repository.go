package repositories

import (
	"context"
	"errors"
	"fmt"

	"fxwallet/internal/models"

	"gorm.io/gorm"
)

// FxRateRepository persists fetched exchange rates. Rows are append-only;
// the newest row for a pair wins.
type FxRateRepository interface {
	FindLatest(ctx context.Context, base, target models.Currency) (*models.FxRate, error)
	Create(ctx context.Context, rate *models.FxRate) error
}

type fxRateRepository struct {
	db *gorm.DB
}

func NewFxRateRepository(db *gorm.DB) FxRateRepository {
	return &fxRateRepository{db: db}
}

func (r *fxRateRepository) FindLatest(ctx context.Context, base, target models.Currency) (*models.FxRate, error) {
	var rate models.FxRate
	err := r.db.WithContext(ctx).
		Where("base_currency = ? AND target_currency = ?", base, target).
		Order("valid_until DESC").
		Order("created_at DESC").
		Take(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFxRateNotFound
		}
		return nil, fmt.Errorf("failed to get fx rate: %w", err)
	}
	return &rate, nil
}

func (r *fxRateRepository) Create(ctx context.Context, rate *models.FxRate) error {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return fmt.Errorf("failed to save fx rate: %w", err)
	}
	return nil
}
