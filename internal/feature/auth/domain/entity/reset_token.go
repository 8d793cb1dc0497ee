package entity

import "time"

// PasswordResetToken is a one-time, time-boxed credential for resetting a
// password. Once used or expired it can never become valid again.
type PasswordResetToken struct {
	ID uint `gorm:"primaryKey"`

	UserID uint  `gorm:"index;not null"`
	User   *User `gorm:"foreignKey:UserID"`

	// Token is the random 64-character string mailed to the user.
	Token string `gorm:"uniqueIndex;size:255;not null"`

	// TokenExpiry is one hour after issuance.
	TokenExpiry time.Time `gorm:"not null"`

	// Used prevents replay of a consumed token.
	Used bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsValid reports whether the token can still be consumed.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.TokenExpiry)
}
