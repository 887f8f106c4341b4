package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var maxEntryHours = decimal.NewFromInt(24)

type TimeEntry struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	EmployeeID uint            `gorm:"not null;index" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID" json:"-"`
	ProjectID  uint            `gorm:"not null;index" json:"project_id"`
	Project    Project         `gorm:"foreignKey:ProjectID" json:"-"`
	EntryDate  time.Time       `gorm:"not null;type:date;index" json:"entry_date"`
	Hours      decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"hours"`
	Note       *string         `gorm:"type:text" json:"note"`
}

// EntryFilter narrows a time entry query. Zero values match everything.
type EntryFilter struct {
	Month      *Month
	ProjectID  uint
	EmployeeID uint
}

type TimeEntryPatch struct {
	EmployeeID *uint            `json:"employee_id"`
	ProjectID  *uint            `json:"project_id"`
	EntryDate  *Date            `json:"entry_date"`
	Hours      *decimal.Decimal `json:"hours"`
	Note       *string          `json:"note"`
}

func (p TimeEntryPatch) Apply(e *TimeEntry) {
	if p.EmployeeID != nil {
		e.EmployeeID = *p.EmployeeID
	}
	if p.ProjectID != nil {
		e.ProjectID = *p.ProjectID
	}
	if p.EntryDate != nil {
		e.EntryDate = p.EntryDate.Time()
	}
	if p.Hours != nil {
		e.Hours = *p.Hours
	}
	if p.Note != nil {
		note := *p.Note
		e.Note = &note
	}
}

func (e *TimeEntry) Validate() error {
	if e.EmployeeID == 0 {
		return fmt.Errorf("%w: employee_id is required", ErrValidation)
	}
	if e.ProjectID == 0 {
		return fmt.Errorf("%w: project_id is required", ErrValidation)
	}
	if e.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry_date is required", ErrValidation)
	}
	if !e.Hours.IsPositive() || e.Hours.GreaterThan(maxEntryHours) {
		return fmt.Errorf("%w: hours must be between 0 and 24", ErrValidation)
	}
	if e.Hours.Exponent() < -2 && !e.Hours.Equal(e.Hours.Round(2)) {
		return fmt.Errorf("%w: hours must have at most two decimal places", ErrValidation)
	}
	return nil
}

func (e TimeEntry) MarshalJSON() ([]byte, error) {
	type entry TimeEntry
	return json.Marshal(struct {
		entry
		EntryDate Date `json:"entry_date"`
	}{entry(e), Date(e.EntryDate)})
}
