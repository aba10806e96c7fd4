package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/forkful/recipe-catalog/shared/models"
)

// RecipeSummary is the abbreviated projection used by the list view.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	YieldAmount string    `json:"yield_amount"`
}

// IngredientLineView is one ingredient line of the detail view.
type IngredientLineView struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// RecipeDetail is the full projection used by the detail view. Ingredients
// appear in the order they were submitted.
type RecipeDetail struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Instructions string               `json:"instructions"`
	YieldAmount  string               `json:"yield_amount"`
	Ingredients  []IngredientLineView `json:"ingredients"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toRecipeSummaries(recipes []models.Recipe) []RecipeSummary {
	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, RecipeSummary{
			ID:          recipe.ID,
			Title:       recipe.Title,
			YieldAmount: recipe.YieldAmount,
		})
	}
	return summaries
}

func toRecipeDetail(recipe *models.Recipe) RecipeDetail {
	lines := make([]IngredientLineView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		view := IngredientLineView{
			Quantity: line.Quantity,
			Unit:     line.Unit,
		}
		if line.Ingredient != nil {
			view.Name = line.Ingredient.Name
		}
		lines = append(lines, view)
	}

	return RecipeDetail{
		ID:           recipe.ID,
		Title:        recipe.Title,
		Instructions: recipe.Instructions,
		YieldAmount:  recipe.YieldAmount,
		Ingredients:  lines,
		UpdatedAt:    recipe.UpdatedAt,
	}
}
