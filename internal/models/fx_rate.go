package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FxRate is the price of one unit of BaseCurrency in TargetCurrency, usable until ValidUntil.
type FxRate struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BaseCurrency   Currency        `gorm:"type:varchar(3);not null;index:idx_fx_rates_pair,priority:1" json:"baseCurrency"`
	TargetCurrency Currency        `gorm:"type:varchar(3);not null;index:idx_fx_rates_pair,priority:2" json:"targetCurrency"`
	Rate           decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"rate"`
	Source         string          `gorm:"type:varchar(64);not null" json:"source"`
	ValidUntil     time.Time       `gorm:"not null" json:"validUntil"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (r *FxRate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the rate is no longer usable at now.
func (r *FxRate) IsExpired(now time.Time) bool {
	return now.After(r.ValidUntil)
}
