package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/forkful/recipe-catalog/shared/config"
	"github.com/forkful/recipe-catalog/shared/middleware"
	"github.com/forkful/recipe-catalog/shared/repository"
	"github.com/forkful/recipe-catalog/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for profile-resolution caching
	if err := utils.InitRedis(); err != nil {
		logrus.Warnf("Failed to connect to Redis, profile caching disabled: %v", err)
	}
	defer utils.CloseRedis()

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize authentication middleware
	authMiddleware, err := middleware.NewAuthMiddleware()
	if err != nil {
		log.Fatal("Failed to initialize auth middleware:", err)
	}

	recipes := repository.NewRecipeRepository(db)
	registry := repository.NewIngredientRegistry(db)
	profiles := repository.NewProfileRepository(db)
	guard := middleware.NewTenantGuard(profiles)

	// Recipe mutation events are best-effort; the publisher is a no-op when
	// KAFKA_BROKER is unset.
	publisher := NewRecipeEventPublisher(os.Getenv("KAFKA_BROKER"))
	defer publisher.Close()

	router := setupRouter(db, authMiddleware, guard, recipes, registry, profiles, publisher)

	// Start server
	port := os.Getenv("CATALOG_SERVICE_PORT")
	if port == "" {
		port = "8003"
	}

	logrus.Infof("Catalog service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start catalog service:", err)
	}
}

// setupRouter wires the full route table. Split out of main so handler tests
// can run against the real middleware chain.
func setupRouter(
	db *gorm.DB,
	authMiddleware *middleware.AuthMiddleware,
	guard *middleware.TenantGuard,
	recipes *repository.RecipeRepository,
	registry *repository.IngredientRegistry,
	profiles *repository.ProfileRepository,
	publisher *RecipeEventPublisher,
) *gin.Engine {
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Recipe routes: every request is authenticated, then scoped to the
	// caller's restaurant by the tenant guard.
	recipeRoutes := api.Group("/recipes")
	recipeRoutes.Use(authMiddleware.RequireAuth(), guard.ResolveRestaurant())
	{
		recipeRoutes.GET("/", handleListRecipes(recipes))
		recipeRoutes.POST("/", handleCreateRecipe(recipes, publisher))
		recipeRoutes.GET("/:id", handleGetRecipe(recipes))
		recipeRoutes.PUT("/:id", handleUpdateRecipe(recipes, publisher))
		recipeRoutes.DELETE("/:id", handleDeleteRecipe(recipes, publisher))
	}

	// Administrative routes (platform management)
	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole("admin"))
	{
		admin.POST("/restaurants", handleCreateRestaurant(db))
		admin.GET("/restaurants", handleListRestaurants(db))
		admin.POST("/profiles", handleCreateProfile(profiles))
		admin.GET("/ingredients", handleListIngredients(registry))
		admin.DELETE("/ingredients/:id", handleDeleteIngredient(registry))
	}

	return router
}
