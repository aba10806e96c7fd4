package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forkful/recipe-catalog/shared/config"
	"github.com/forkful/recipe-catalog/shared/models"
)

// newTestDB opens an isolated in-memory database per test. A single
// connection keeps every session on the same sqlite instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDatabase(db))
	return db
}

func createRestaurant(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()

	restaurant := models.Restaurant{Name: name}
	require.NoError(t, db.Create(&restaurant).Error)
	return restaurant.ID
}

func createRecipe(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, title string, lines ...IngredientLine) *models.Recipe {
	t.Helper()

	recipe, err := NewRecipeRepository(db).Create(context.Background(), restaurantID, RecipeInput{
		Title:        title,
		Instructions: "Mix and cook.",
		YieldAmount:  "1 serving",
		Ingredients:  lines,
	})
	require.NoError(t, err)
	return recipe
}
