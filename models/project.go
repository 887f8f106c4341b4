package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PriceType string

const (
	PriceFixed  PriceType = "fixed"
	PriceHourly PriceType = "hourly"
)

func (t PriceType) Valid() bool {
	return t == PriceFixed || t == PriceHourly
}

// Project is billed either a flat monthly fee (fixed) or PriceValue per
// logged hour (hourly).
type Project struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Name       string          `gorm:"not null;size:200" json:"name"`
	PriceType  PriceType       `gorm:"not null;size:20" json:"price_type"`
	PriceValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_value"`
}

type ProjectPatch struct {
	Name       *string          `json:"name"`
	PriceType  *PriceType       `json:"price_type"`
	PriceValue *decimal.Decimal `json:"price_value"`
}

func (p ProjectPatch) Apply(pr *Project) {
	if p.Name != nil {
		pr.Name = strings.TrimSpace(*p.Name)
	}
	if p.PriceType != nil {
		pr.PriceType = *p.PriceType
	}
	if p.PriceValue != nil {
		pr.PriceValue = *p.PriceValue
	}
}

func (pr *Project) Validate() error {
	if strings.TrimSpace(pr.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !pr.PriceType.Valid() {
		return fmt.Errorf("%w: price_type must be %q or %q", ErrValidation, PriceFixed, PriceHourly)
	}
	if pr.PriceValue.IsNegative() {
		return fmt.Errorf("%w: price_value must not be negative", ErrValidation)
	}
	return nil
}
