// Package usecase implements the business logic for the recipes feature.
package usecase

import "errors"

var (
	// ErrRecipeNotFound is returned when a recipe does not exist or is
	// soft-deleted. The two cases are indistinguishable to callers.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrDuplicateName is returned when a recipe name already exists
	// (case-insensitive), either from the pre-check or from the store's
	// unique index losing a concurrent race.
	ErrDuplicateName = errors.New("recipe name already exists")

	// ErrForbidden is returned when the authenticated user is neither the
	// recipe owner nor an admin.
	ErrForbidden = errors.New("operation not permitted")
)
