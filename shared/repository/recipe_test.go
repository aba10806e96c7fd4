package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/recipe-catalog/shared/models"
)

func strPtr(s string) *string {
	return &s
}

func TestCreateGetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	created, err := repo.Create(context.Background(), restaurantID, RecipeInput{
		Title:        "Garlic Bread",
		Instructions: "Bake it.",
		YieldAmount:  "4 pieces",
		Ingredients: []IngredientLine{
			{Name: "Bread", Quantity: 1, Unit: "loaf"},
			{Name: "Garlic", Quantity: 2, Unit: "cloves"},
			{Name: "Butter", Quantity: 50, Unit: "grams"},
		},
	})
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), restaurantID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Garlic Bread", got.Title)
	assert.Equal(t, "Bake it.", got.Instructions)
	assert.Equal(t, "4 pieces", got.YieldAmount)

	// Lines come back in submission order.
	require.Len(t, got.Ingredients, 3)
	names := []string{}
	for _, line := range got.Ingredients {
		require.NotNil(t, line.Ingredient)
		names = append(names, line.Ingredient.Name)
	}
	assert.Equal(t, []string{"Bread", "Garlic", "Butter"}, names)
	assert.Equal(t, 2.0, got.Ingredients[1].Quantity)
	assert.Equal(t, "cloves", got.Ingredients[1].Unit)
}

func TestListScopedToRestaurant(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	pizzaID := createRestaurant(t, db, "Pizza Palace")
	burgerID := createRestaurant(t, db, "Burger Barn")

	recipe := createRecipe(t, db, pizzaID, "Margherita Pizza")

	own, err := repo.List(context.Background(), pizzaID, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, recipe.ID, own[0].ID)

	other, err := repo.List(context.Background(), burgerID, "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListOrdersByMostRecentlyUpdated(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	first := createRecipe(t, db, restaurantID, "Margherita Pizza")
	time.Sleep(10 * time.Millisecond)
	createRecipe(t, db, restaurantID, "Calzone")
	time.Sleep(10 * time.Millisecond)

	// Touching the older recipe moves it back to the front.
	_, err := repo.Update(context.Background(), restaurantID, first.ID, RecipeUpdate{})
	require.NoError(t, err)

	recipes, err := repo.List(context.Background(), restaurantID, "")
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Margherita Pizza", recipes[0].Title)
	assert.Equal(t, "Calzone", recipes[1].Title)
}

func TestListSearchMatchesTitleAndIngredient(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")
	otherID := createRestaurant(t, db, "Burger Barn")

	// Matches by title AND by ingredient name; must appear once.
	createRecipe(t, db, restaurantID, "Tomato Soup",
		IngredientLine{Name: "Tomato", Quantity: 4, Unit: "pieces"})
	// Matches by ingredient only.
	createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "San Marzano Tomatoes", Quantity: 200, Unit: "grams"})
	// No match.
	createRecipe(t, db, restaurantID, "Garlic Bread",
		IngredientLine{Name: "Garlic", Quantity: 2, Unit: "cloves"})
	// Matching recipe in another restaurant stays invisible.
	createRecipe(t, db, otherID, "Tomato Salad",
		IngredientLine{Name: "Tomato", Quantity: 2, Unit: "pieces"})

	results, err := repo.List(context.Background(), restaurantID, "TOMATO")
	require.NoError(t, err)
	require.Len(t, results, 2)

	titles := map[string]bool{}
	for _, recipe := range results {
		titles[recipe.Title] = true
	}
	assert.True(t, titles["Tomato Soup"])
	assert.True(t, titles["Margherita Pizza"])
}

func TestGetUnknownAndCrossTenantAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	pizzaID := createRestaurant(t, db, "Pizza Palace")
	burgerID := createRestaurant(t, db, "Burger Barn")

	foreign := createRecipe(t, db, burgerID, "Classic Burger")

	_, unknownErr := repo.Get(context.Background(), pizzaID, uuid.New())
	_, crossErr := repo.Get(context.Background(), pizzaID, foreign.ID)

	assert.ErrorIs(t, unknownErr, ErrRecipeNotFound)
	assert.ErrorIs(t, crossErr, ErrRecipeNotFound)
	assert.Equal(t, unknownErr, crossErr)
}

func TestUpdateReplacesIngredientListWholesale(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	recipe := createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "Flour", Quantity: 500, Unit: "grams"},
		IngredientLine{Name: "Cheese", Quantity: 200, Unit: "grams"})
	before := recipe.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(context.Background(), restaurantID, recipe.ID, RecipeUpdate{
		Ingredients: []IngredientLine{
			{Name: "Flour", Quantity: 600, Unit: "grams"},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Flour", updated.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 600.0, updated.Ingredients[0].Quantity)
	assert.True(t, updated.UpdatedAt.After(before))

	// The old lines are gone from storage, not just from the projection.
	var count int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateOmittingIngredientsPreservesLines(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	recipe := createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "Flour", Quantity: 500, Unit: "grams"},
		IngredientLine{Name: "Cheese", Quantity: 200, Unit: "grams"})

	updated, err := repo.Update(context.Background(), restaurantID, recipe.ID, RecipeUpdate{
		Title: strPtr("Super Margherita Pizza"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Super Margherita Pizza", updated.Title)
	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, "Flour", updated.Ingredients[0].Ingredient.Name)
	assert.Equal(t, "Cheese", updated.Ingredients[1].Ingredient.Name)
}

func TestUpdateWithEmptyIngredientListClearsLines(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	recipe := createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "Flour", Quantity: 500, Unit: "grams"})

	updated, err := repo.Update(context.Background(), restaurantID, recipe.ID, RecipeUpdate{
		Ingredients: []IngredientLine{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Ingredients)
}

func TestUpdateCrossTenantReportedAsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	pizzaID := createRestaurant(t, db, "Pizza Palace")
	burgerID := createRestaurant(t, db, "Burger Barn")

	foreign := createRecipe(t, db, burgerID, "Classic Burger")

	_, err := repo.Update(context.Background(), pizzaID, foreign.ID, RecipeUpdate{
		Title: strPtr("Hijacked"),
	})
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	// The foreign recipe is untouched.
	got, err := repo.Get(context.Background(), burgerID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classic Burger", got.Title)
}

func TestDeleteRemovesRecipeAndLines(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	recipe := createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "Flour", Quantity: 500, Unit: "grams"},
		IngredientLine{Name: "Cheese", Quantity: 200, Unit: "grams"})

	deleted, err := repo.Delete(context.Background(), restaurantID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, deleted.ID)
	assert.Equal(t, "Margherita Pizza", deleted.Title)

	_, err = repo.Get(context.Background(), restaurantID, recipe.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount).Error)
	assert.EqualValues(t, 0, lineCount)

	// Shared ingredient rows outlive the recipe.
	var ingredientCount int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredientCount).Error)
	assert.EqualValues(t, 2, ingredientCount)
}

func TestDeleteCrossTenantReportedAsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	pizzaID := createRestaurant(t, db, "Pizza Palace")
	burgerID := createRestaurant(t, db, "Burger Barn")

	foreign := createRecipe(t, db, burgerID, "Classic Burger")

	_, err := repo.Delete(context.Background(), pizzaID, foreign.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCreateRejectsDuplicateIngredientLines(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	_, err := repo.Create(context.Background(), restaurantID, RecipeInput{
		Title: "Bread Sandwich",
		Ingredients: []IngredientLine{
			{Name: "Bread", Quantity: 1, Unit: "slice"},
			{Name: "Bread", Quantity: 2, Unit: "slices"},
		},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nothing was persisted.
	var recipeCount, lineCount int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipeCount).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&lineCount).Error)
	assert.EqualValues(t, 0, recipeCount)
	assert.EqualValues(t, 0, lineCount)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	_, err := repo.Create(context.Background(), restaurantID, RecipeInput{
		Title: "Mystery Stew",
		Ingredients: []IngredientLine{
			{Name: "Carrot", Quantity: -1, Unit: "pieces"},
		},
	})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	_, err := repo.Create(context.Background(), restaurantID, RecipeInput{Title: "   "})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateValidationLeavesRecipeUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	recipe := createRecipe(t, db, restaurantID, "Margherita Pizza",
		IngredientLine{Name: "Flour", Quantity: 500, Unit: "grams"})

	_, err := repo.Update(context.Background(), restaurantID, recipe.ID, RecipeUpdate{
		Ingredients: []IngredientLine{
			{Name: "Bread", Quantity: 1, Unit: "slice"},
			{Name: "Bread", Quantity: 2, Unit: "slices"},
		},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	got, err := repo.Get(context.Background(), restaurantID, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Flour", got.Ingredients[0].Ingredient.Name)
}
