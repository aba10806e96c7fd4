package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/forkful/recipe-catalog/shared/models"
	"github.com/forkful/recipe-catalog/shared/repository"
	"github.com/forkful/recipe-catalog/shared/utils"
)

// CreateRestaurantRequest represents the create restaurant request
type CreateRestaurantRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProfileRequest binds an external user id to a restaurant
type CreateProfileRequest struct {
	UserID       string    `json:"user_id" binding:"required"`
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
}

// handleCreateRestaurant handles restaurant creation (admin only)
func handleCreateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRestaurantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		// Check if name already exists
		var existing models.Restaurant
		if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
			utils.BadRequestResponse(c, "Restaurant name already exists")
			return
		}

		restaurant := models.Restaurant{
			Name: req.Name,
		}

		if err := db.Create(&restaurant).Error; err != nil {
			logrus.Warnf("Failed to create restaurant: %v", err)
			utils.InternalServerErrorResponse(c, "Failed to create restaurant")
			return
		}

		c.JSON(http.StatusCreated, restaurant)
	}
}

// handleListRestaurants handles listing all restaurants (admin only)
func handleListRestaurants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurants []models.Restaurant
		if err := db.Order("name").Find(&restaurants).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch restaurants")
			return
		}

		c.JSON(http.StatusOK, restaurants)
	}
}

// handleCreateProfile handles binding a user to a restaurant (admin only)
func handleCreateProfile(profiles *repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		profile, err := profiles.Create(c.Request.Context(), req.UserID, req.RestaurantID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRestaurantNotFound):
				utils.BadRequestResponse(c, "Restaurant not found")
			case errors.Is(err, repository.ErrDuplicateProfile):
				utils.BadRequestResponse(c, "User already has a profile")
			default:
				logrus.Warnf("Failed to create profile: %v", err)
				utils.InternalServerErrorResponse(c, "Failed to create profile")
			}
			return
		}

		c.JSON(http.StatusCreated, profile)
	}
}

// handleListIngredients handles listing the global ingredient registry
// (admin only)
func handleListIngredients(registry *repository.IngredientRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ingredients, err := registry.List(c.Request.Context())
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch ingredients")
			return
		}

		c.JSON(http.StatusOK, ingredients)
	}
}

// handleDeleteIngredient handles deleting an unreferenced ingredient
// (admin only)
func handleDeleteIngredient(registry *repository.IngredientRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.NotFoundResponse(c, "Ingredient not found")
			return
		}

		if err := registry.Delete(c.Request.Context(), id); err != nil {
			switch {
			case errors.Is(err, repository.ErrIngredientNotFound):
				utils.NotFoundResponse(c, "Ingredient not found")
			case errors.Is(err, repository.ErrIngredientInUse):
				utils.ConflictResponse(c, "Ingredient is referenced by existing recipes")
			default:
				logrus.Warnf("Failed to delete ingredient: %v", err)
				utils.InternalServerErrorResponse(c, "Failed to delete ingredient")
			}
			return
		}

		c.Status(http.StatusNoContent)
	}
}
