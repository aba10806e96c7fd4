package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrRecipeNotFound covers both an unknown recipe id and a recipe owned
	// by another restaurant. The two cases must stay indistinguishable so
	// existence never leaks across tenants.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNoProfile means the principal has no restaurant binding. Reads see
	// an empty catalog; writes are rejected with this error.
	ErrNoProfile = errors.New("user has no restaurant profile")

	// ErrIngredientNotFound is returned for an unknown ingredient id.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrIngredientInUse blocks deletion of an ingredient while any recipe
	// line still references it.
	ErrIngredientInUse = errors.New("ingredient is referenced by existing recipes")

	// ErrRestaurantNotFound is returned when binding a profile to an unknown
	// restaurant.
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrDuplicateProfile is returned when a user already holds a profile.
	ErrDuplicateProfile = errors.New("user already has a profile")
)

// ValidationError reports invalid recipe input: an empty title, a negative
// quantity, or the same ingredient listed twice in one submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
