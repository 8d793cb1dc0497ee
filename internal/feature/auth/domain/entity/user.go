// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"
)

// User represents a registered user in the system.
// Email is the login identifier and is stored lowercase so that
// uniqueness is effectively case-insensitive.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This must never store a plaintext password.
	Password string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:50;not null"`
	LastName  string `gorm:"size:50;not null"`

	// IsAdmin grants update/delete rights over other users' resources.
	IsAdmin bool `gorm:"not null;default:false"`

	// IsActive controls whether the user may log in.
	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Deleted marks the account as soft-deleted. The row stays in place
	// so that an administrator can restore it.
	Deleted   bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name in "First Last" form.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SoftDelete marks the account deleted and blocks future logins.
// The caller is responsible for persisting the change.
func (u *User) SoftDelete(now time.Time) {
	u.Deleted = true
	u.DeletedAt = &now
	u.IsActive = false
}

// Restore reverses a soft delete. Admin only at the API level.
func (u *User) Restore() {
	u.Deleted = false
	u.DeletedAt = nil
	u.IsActive = true
}

// NormalizeEmail lowercases and trims an email address. It is applied to
// every email before storage or lookup so comparisons stay case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
