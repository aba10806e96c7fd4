package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/recipe-catalog/shared/models"
)

// IngredientLine is one submitted line of a recipe's ingredient list.
type IngredientLine struct {
	Name     string
	Quantity float64
	Unit     string
}

// RecipeInput carries the fields for a new recipe.
type RecipeInput struct {
	Title        string
	Instructions string
	YieldAmount  string
	Ingredients  []IngredientLine
}

// RecipeUpdate carries a partial update. Nil scalar pointers leave the field
// unchanged. A nil Ingredients slice leaves the line list untouched; a
// non-nil slice, including an empty one, replaces it wholesale.
type RecipeUpdate struct {
	Title        *string
	Instructions *string
	YieldAmount  *string
	Ingredients  []IngredientLine
}

// RecipeRepository executes all recipe operations scoped to an explicit
// restaurant id. Callers resolve the restaurant once per request and pass it
// in; the repository never infers identity from ambient state.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List returns the restaurant's recipes ordered by most recently updated.
// A non-empty search term keeps only recipes whose title contains the term or
// that have at least one ingredient whose name contains it, matched
// case-insensitively. The ingredient match runs as an id subquery, so a
// recipe matching both ways still appears once.
func (r *RecipeRepository) List(ctx context.Context, restaurantID uuid.UUID, search string) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		matching := r.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
			Select("recipe_ingredients.recipe_id").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Where("LOWER(ingredients.name) LIKE ?", pattern)
		query = query.Where("LOWER(title) LIKE ? OR id IN (?)", pattern, matching)
	}

	var recipes []models.Recipe
	if err := query.Order("updated_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one recipe with its ingredient lines in submission order.
// A recipe outside the restaurant's scope is reported as not found.
func (r *RecipeRepository) Get(ctx context.Context, restaurantID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position")
		}).
		Preload("Ingredients.Ingredient").
		Where("id = ? AND restaurant_id = ?", recipeID, restaurantID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to fetch recipe: %w", err)
	}
	return &recipe, nil
}

// Create validates the input, then persists the recipe row and every
// ingredient line in one transaction. A failure on any line rolls the whole
// recipe back.
func (r *RecipeRepository) Create(ctx context.Context, restaurantID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, newValidationError("title must not be empty")
	}
	if err := validateLines(input.Ingredients); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:        input.Title,
		Instructions: input.Instructions,
		YieldAmount:  input.YieldAmount,
		RestaurantID: restaurantID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return insertLines(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, restaurantID, recipe.ID)
}

// Update applies a partial update. The recipe row is saved first so its row
// lock serializes concurrent ingredient replacements on the same recipe, and
// updated_at is refreshed regardless of which fields changed.
func (r *RecipeRepository) Update(ctx context.Context, restaurantID, recipeID uuid.UUID, update RecipeUpdate) (*models.Recipe, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, newValidationError("title must not be empty")
	}
	if update.Ingredients != nil {
		if err := validateLines(update.Ingredients); err != nil {
			return nil, err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ? AND restaurant_id = ?", recipeID, restaurantID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to fetch recipe: %w", err)
		}

		if update.Title != nil {
			recipe.Title = *update.Title
		}
		if update.Instructions != nil {
			recipe.Instructions = *update.Instructions
		}
		if update.YieldAmount != nil {
			recipe.YieldAmount = *update.YieldAmount
		}

		// Save touches updated_at even when no scalar field changed.
		if err := tx.Save(&recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if update.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredient lines: %w", err)
			}
			if err := insertLines(tx, recipe.ID, update.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, restaurantID, recipeID)
}

// Delete removes a recipe and its ingredient lines, returning the row as it
// stood at deletion so callers can report on it. Scoping follows Get: a
// cross-tenant id is reported as not found.
func (r *RecipeRepository) Delete(ctx context.Context, restaurantID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND restaurant_id = ?", recipeID, restaurantID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to fetch recipe: %w", err)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredient lines: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// insertLines resolves each ingredient through the registry and inserts the
// lines with their submission position. Runs inside the caller's transaction.
func insertLines(tx *gorm.DB, recipeID uuid.UUID, lines []IngredientLine) error {
	for i, line := range lines {
		ingredientID, err := resolveIngredient(tx, line.Name)
		if err != nil {
			return err
		}
		row := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Position:     i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert ingredient line %q: %w", line.Name, err)
		}
	}
	return nil
}

// validateLines rejects duplicate ingredient names, empty names, and negative
// quantities before any row is written.
func validateLines(lines []IngredientLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.Name) == "" {
			return newValidationError("ingredient name must not be empty")
		}
		if _, dup := seen[line.Name]; dup {
			return newValidationError("ingredient %q appears more than once", line.Name)
		}
		seen[line.Name] = struct{}{}
		if line.Quantity < 0 {
			return newValidationError("quantity for %q must not be negative", line.Name)
		}
	}
	return nil
}
