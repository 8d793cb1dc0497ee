// Package entity defines the domain entities for the recipes feature.
package entity

import (
	"time"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
)

// AnonymousCreatorName is displayed when the owning user is missing or
// soft-deleted. The recipe itself is never cascaded away with its owner.
const AnonymousCreatorName = "Anonymous User"

// Recipe is the aggregate root of a recipe: scalar fields plus ordered
// ingredient and instruction section trees.
//
// recipe_name uniqueness is case-insensitive: the usecase pre-checks with a
// LOWER() comparison and the MySQL unique index (utf8mb4 CI collation)
// backstops concurrent creates.
type Recipe struct {
	ID uint `gorm:"primaryKey"`

	// UserID is nullable: when the owner row is removed the recipe stays,
	// and reads fall back to AnonymousCreatorName.
	UserID *uint            `gorm:"index"`
	User   *authentity.User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`

	RecipeName        string `gorm:"size:150;not null;uniqueIndex"`
	RecipeDescription string `gorm:"size:1000;not null"`

	// RecipeImage holds the URL returned by the external media service.
	// Image bytes are never stored or transformed here.
	RecipeImage string `gorm:"size:500"`

	CourseType     string `gorm:"size:50;not null"`
	RecipeType     string `gorm:"size:50;not null"`
	PrimaryProtein string `gorm:"size:50;not null"`
	EthnicStyle    string `gorm:"size:50;not null"`

	// PrepTime and CookTime are minutes. TotalTime is derived, never stored.
	PrepTime       int `gorm:"not null"`
	CookTime       int `gorm:"not null"`
	NumberServings int `gorm:"not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Deleted   bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time

	IngredientSections  []IngredientSection  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	InstructionSections []InstructionSection `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Recipe) TableName() string {
	return "recipes"
}

// TotalTime returns prep time plus cook time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// CreatorName returns the owner's full name, or AnonymousCreatorName when
// the owner is missing or soft-deleted.
func (r *Recipe) CreatorName() string {
	if r.User != nil && !r.User.Deleted {
		return r.User.FullName()
	}
	return AnonymousCreatorName
}

// CreatorID returns the owner's ID, or nil when the owner is missing or
// soft-deleted.
func (r *Recipe) CreatorID() *uint {
	if r.User != nil && !r.User.Deleted {
		id := r.User.ID
		return &id
	}
	return nil
}

// SoftDelete archives the recipe without removing the row. The caller is
// responsible for persisting the change.
func (r *Recipe) SoftDelete(now time.Time) {
	r.Deleted = true
	r.DeletedAt = &now
}

// IngredientSection is an ordered named grouping of ingredients within a
// recipe ("For the Sauce", "For the Crust", ...).
type IngredientSection struct {
	ID       uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"not null;uniqueIndex:uq_ingredient_section_order"`

	SectionTitle string `gorm:"size:150;not null"`

	// SectionOrder is taken verbatim from the payload; no re-sequencing.
	SectionOrder int `gorm:"not null;uniqueIndex:uq_ingredient_section_order"`

	Ingredients []Ingredient `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (IngredientSection) TableName() string {
	return "ingredient_sections"
}

// Ingredient is a single ingredient line within an ingredient section.
// Quantity and unit of measure may be empty ("to taste").
type Ingredient struct {
	ID        uint `gorm:"primaryKey"`
	SectionID uint `gorm:"not null;uniqueIndex:uq_ingredient_order"`

	IngredientQuantity string `gorm:"size:20"`
	IngredientUOM      string `gorm:"size:20"`
	IngredientName     string `gorm:"size:150;not null;index"`

	IngredientOrder int `gorm:"not null;uniqueIndex:uq_ingredient_order"`
}

// TableName returns the table name for GORM.
func (Ingredient) TableName() string {
	return "ingredients"
}

// InstructionSection is an ordered named grouping of instruction steps
// within a recipe.
type InstructionSection struct {
	ID       uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"not null;uniqueIndex:uq_instruction_section_order"`

	SectionTitle string `gorm:"size:150;not null"`
	SectionOrder int    `gorm:"not null;uniqueIndex:uq_instruction_section_order"`

	Instructions []Instruction `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (InstructionSection) TableName() string {
	return "instruction_sections"
}

// Instruction is a single step within an instruction section.
type Instruction struct {
	ID        uint `gorm:"primaryKey"`
	SectionID uint `gorm:"not null;uniqueIndex:uq_instruction_order"`

	InstructionStep string `gorm:"size:500;not null"`
	StepOrder       int    `gorm:"not null;uniqueIndex:uq_instruction_order"`
}

// TableName returns the table name for GORM.
func (Instruction) TableName() string {
	return "instructions"
}
