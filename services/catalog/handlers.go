package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forkful/recipe-catalog/shared/middleware"
	"github.com/forkful/recipe-catalog/shared/repository"
	"github.com/forkful/recipe-catalog/shared/utils"
)

// IngredientLineRequest is one submitted ingredient line
type IngredientLineRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// CreateRecipeRequest represents the create recipe request. The owning
// restaurant is always taken from the caller, never from the body.
type CreateRecipeRequest struct {
	Title        string                  `json:"title"`
	Instructions string                  `json:"instructions"`
	YieldAmount  string                  `json:"yield_amount"`
	Ingredients  []IngredientLineRequest `json:"ingredients"`
}

// UpdateRecipeRequest represents the update recipe request. Omitted scalar
// fields stay unchanged; an omitted ingredients key keeps the existing lines,
// while a present one (even empty) replaces them wholesale.
type UpdateRecipeRequest struct {
	Title        *string                  `json:"title"`
	Instructions *string                  `json:"instructions"`
	YieldAmount  *string                  `json:"yield_amount"`
	Ingredients  *[]IngredientLineRequest `json:"ingredients"`
}

// handleListRecipes handles listing the caller's restaurant's recipes,
// optionally filtered by ?search=
func handleListRecipes(recipes *repository.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantFromContext(c)
		if !ok {
			// No profile: the caller sees an empty catalog.
			c.JSON(http.StatusOK, []RecipeSummary{})
			return
		}

		results, err := recipes.List(c.Request.Context(), restaurantID, c.Query("search"))
		if err != nil {
			logrus.Warnf("Failed to list recipes: %v", err)
			utils.InternalServerErrorResponse(c, "Failed to fetch recipes")
			return
		}

		c.JSON(http.StatusOK, toRecipeSummaries(results))
	}
}

// handleGetRecipe handles retrieving a single recipe with its ingredient lines
func handleGetRecipe(recipes *repository.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantFromContext(c)
		if !ok {
			utils.NotFoundResponse(c, "Recipe not found")
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.NotFoundResponse(c, "Recipe not found")
			return
		}

		recipe, err := recipes.Get(c.Request.Context(), restaurantID, recipeID)
		if err != nil {
			respondRecipeError(c, err)
			return
		}

		c.JSON(http.StatusOK, toRecipeDetail(recipe))
	}
}

// handleCreateRecipe handles creating a recipe for the caller's restaurant
func handleCreateRecipe(recipes *repository.RecipeRepository, publisher *RecipeEventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantFromContext(c)
		if !ok {
			utils.ForbiddenResponse(c, "User has no restaurant profile")
			return
		}

		var req CreateRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		input := repository.RecipeInput{
			Title:        req.Title,
			Instructions: req.Instructions,
			YieldAmount:  req.YieldAmount,
			Ingredients:  toIngredientLines(req.Ingredients),
		}

		recipe, err := recipes.Create(c.Request.Context(), restaurantID, input)
		if err != nil {
			respondRecipeError(c, err)
			return
		}

		publisher.Publish(newRecipeEvent(EventRecipeCreated, recipe))
		c.JSON(http.StatusCreated, toRecipeDetail(recipe))
	}
}

// handleUpdateRecipe handles partially updating a recipe, including the
// wholesale replacement of its ingredient list
func handleUpdateRecipe(recipes *repository.RecipeRepository, publisher *RecipeEventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantFromContext(c)
		if !ok {
			utils.ForbiddenResponse(c, "User has no restaurant profile")
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.NotFoundResponse(c, "Recipe not found")
			return
		}

		var req UpdateRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		update := repository.RecipeUpdate{
			Title:        req.Title,
			Instructions: req.Instructions,
			YieldAmount:  req.YieldAmount,
		}
		if req.Ingredients != nil {
			update.Ingredients = toIngredientLines(*req.Ingredients)
		}

		recipe, err := recipes.Update(c.Request.Context(), restaurantID, recipeID, update)
		if err != nil {
			respondRecipeError(c, err)
			return
		}

		publisher.Publish(newRecipeEvent(EventRecipeUpdated, recipe))
		c.JSON(http.StatusOK, toRecipeDetail(recipe))
	}
}

// handleDeleteRecipe handles deleting a recipe and its ingredient lines
func handleDeleteRecipe(recipes *repository.RecipeRepository, publisher *RecipeEventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := middleware.RestaurantFromContext(c)
		if !ok {
			utils.ForbiddenResponse(c, "User has no restaurant profile")
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.NotFoundResponse(c, "Recipe not found")
			return
		}

		recipe, err := recipes.Delete(c.Request.Context(), restaurantID, recipeID)
		if err != nil {
			respondRecipeError(c, err)
			return
		}

		publisher.Publish(newRecipeEvent(EventRecipeDeleted, recipe))
		c.Status(http.StatusNoContent)
	}
}

// respondRecipeError maps repository failures onto the HTTP taxonomy. Every
// failure surfaces; nothing is retried or silently recovered.
func respondRecipeError(c *gin.Context, err error) {
	var validationErr *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrRecipeNotFound):
		utils.NotFoundResponse(c, "Recipe not found")
	case errors.As(err, &validationErr):
		utils.BadRequestResponse(c, validationErr.Message)
	default:
		logrus.Warnf("Recipe operation failed: %v", err)
		utils.InternalServerErrorResponse(c, "Recipe operation failed")
	}
}

func toIngredientLines(reqLines []IngredientLineRequest) []repository.IngredientLine {
	lines := make([]repository.IngredientLine, 0, len(reqLines))
	for _, line := range reqLines {
		lines = append(lines, repository.IngredientLine{
			Name:     line.Name,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		})
	}
	return lines
}
