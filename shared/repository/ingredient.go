package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/recipe-catalog/shared/models"
)

// IngredientRegistry deduplicates ingredient rows by exact name. The registry
// is global: the same ingredient row is shared across all restaurants.
type IngredientRegistry struct {
	db *gorm.DB
}

// NewIngredientRegistry creates a new ingredient registry
func NewIngredientRegistry(db *gorm.DB) *IngredientRegistry {
	return &IngredientRegistry{db: db}
}

// Resolve returns the id of the ingredient with the given name, creating the
// row on first use.
func (g *IngredientRegistry) Resolve(ctx context.Context, name string) (uuid.UUID, error) {
	return resolveIngredient(g.db.WithContext(ctx), name)
}

// resolveIngredient runs the get-or-create against the given handle so the
// recipe repository can reuse it inside its own transaction. The insert uses
// ON CONFLICT DO NOTHING on the unique name column followed by a select, so
// two concurrent resolutions of a never-before-seen name converge on one row.
func resolveIngredient(tx *gorm.DB, name string) (uuid.UUID, error) {
	ingredient := models.Ingredient{Name: name}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&ingredient).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert ingredient %q: %w", name, err)
	}

	// The generated id is discarded on conflict, so always read the row back.
	// A fresh destination keeps the stamped-but-never-inserted id out of the
	// query conditions.
	var found models.Ingredient
	if err := tx.Where("name = ?", name).Take(&found).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to fetch ingredient %q: %w", name, err)
	}
	return found.ID, nil
}

// List returns all known ingredients ordered by name.
func (g *IngredientRegistry) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := g.db.WithContext(ctx).Order("name").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// Delete removes an ingredient. Deletion is refused with ErrIngredientInUse
// while any recipe line references the row; the RESTRICT foreign key backs
// this up at the storage layer.
func (g *IngredientRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.Where("id = ?", id).First(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIngredientNotFound
			}
			return fmt.Errorf("failed to fetch ingredient: %w", err)
		}

		var refs int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count ingredient references: %w", err)
		}
		if refs > 0 {
			return ErrIngredientInUse
		}

		if err := tx.Delete(&ingredient).Error; err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		return nil
	})
}
