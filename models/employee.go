package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultHoursPerMonth = 160

type Employee struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Name          string          `gorm:"not null;size:200" json:"name"`
	MonthlyCost   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_cost"`
	HoursPerMonth int             `gorm:"not null" json:"hours_per_month"`
	UserID        *uint           `gorm:"index" json:"user_id"`
}

// NullableID is a patch field that tells an absent key apart from an
// explicit null. Set is true whenever the key was present.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return fmt.Errorf("%w: user_id must be a positive integer or null", ErrValidation)
	}
	n.Value = &id
	return nil
}

// EmployeePatch carries the fields of a partial employee update. Nil fields
// are left untouched; UserID set to null unlinks the employee from its user.
type EmployeePatch struct {
	Name          *string          `json:"name"`
	MonthlyCost   *decimal.Decimal `json:"monthly_cost"`
	HoursPerMonth *int             `json:"hours_per_month"`
	UserID        NullableID       `json:"user_id"`
}

func (p EmployeePatch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.MonthlyCost != nil {
		e.MonthlyCost = *p.MonthlyCost
	}
	if p.HoursPerMonth != nil {
		e.HoursPerMonth = *p.HoursPerMonth
	}
	if p.UserID.Set {
		e.UserID = nil
		if p.UserID.Value != nil {
			id := *p.UserID.Value
			e.UserID = &id
		}
	}
}

func (e *Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if e.MonthlyCost.IsNegative() {
		return fmt.Errorf("%w: monthly_cost must not be negative", ErrValidation)
	}
	if e.HoursPerMonth < 0 {
		return fmt.Errorf("%w: hours_per_month must not be negative", ErrValidation)
	}
	return nil
}
