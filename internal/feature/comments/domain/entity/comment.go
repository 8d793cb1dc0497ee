// Package entity defines the domain entities for the comments feature.
package entity

import (
	"time"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
)

// AnonymousCommenterName is displayed when the commenting user is missing
// or soft-deleted. Comments outlive their authors.
const AnonymousCommenterName = "Anonymous User"

// Comment is a flat comment on a recipe. There is no threading and no
// editing: comments are created and, by admins, deleted.
type Comment struct {
	ID uint `gorm:"primaryKey"`

	RecipeID uint `gorm:"not null;index"`

	// UserID is nullable so comments survive account removal.
	UserID *uint            `gorm:"index"`
	User   *authentity.User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`

	CommentText string `gorm:"size:1000;not null"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// CommenterName returns the author's full name, or AnonymousCommenterName
// when the author is missing or soft-deleted.
func (c *Comment) CommenterName() string {
	if c.User != nil && !c.User.Deleted {
		return c.User.FullName()
	}
	return AnonymousCommenterName
}
