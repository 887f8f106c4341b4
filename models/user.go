package models

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;size:20" json:"role"`
	Employee     *Employee `gorm:"foreignKey:UserID" json:"employee,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogTimeFor reports whether u may create or change entries of the given
// employee. employeeID is the employee linked to u, nil when unlinked.
func (u *User) CanLogTimeFor(linked *uint, employeeID uint) bool {
	if u.IsAdmin() {
		return true
	}
	return linked != nil && *linked == employeeID
}
