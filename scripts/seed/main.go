package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/forkful/recipe-catalog/shared/config"
	"github.com/forkful/recipe-catalog/shared/models"
	"github.com/forkful/recipe-catalog/shared/repository"
)

// Seeds the database with two restaurants, one profile each, and a sample
// recipe per restaurant. Existing data is wiped first so the script stays
// idempotent.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := seed(db); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	logrus.Info("Seeding complete")
}

func seed(db *gorm.DB) error {
	ctx := context.Background()

	logrus.Info("Deleting old data")
	// Children before parents; ingredient rows are delete-protected while
	// referenced.
	for _, model := range []interface{}{
		&models.RecipeIngredient{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.UserProfile{},
		&models.Restaurant{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}

	logrus.Info("Creating restaurants and profiles")
	pizzeria := models.Restaurant{Name: "Nonna's Pizzeria"}
	grill := models.Restaurant{Name: "The Sizzling Grill"}
	if err := db.Create(&pizzeria).Error; err != nil {
		return err
	}
	if err := db.Create(&grill).Error; err != nil {
		return err
	}

	profiles := repository.NewProfileRepository(db)
	if _, err := profiles.Create(ctx, "chef_tony", pizzeria.ID); err != nil {
		return err
	}
	if _, err := profiles.Create(ctx, "grillmaster_glen", grill.ID); err != nil {
		return err
	}

	logrus.Info("Creating sample recipes")
	recipes := repository.NewRecipeRepository(db)

	_, err := recipes.Create(ctx, pizzeria.ID, repository.RecipeInput{
		Title:        "Margherita Pizza",
		Instructions: "Stretch the dough, spread the sauce, top with mozzarella and basil, bake at 450C for 90 seconds.",
		YieldAmount:  "1 large pizza",
		Ingredients: []repository.IngredientLine{
			{Name: "All-Purpose Flour", Quantity: 500, Unit: "grams"},
			{Name: "San Marzano Tomatoes", Quantity: 200, Unit: "grams"},
			{Name: "Fresh Mozzarella", Quantity: 150, Unit: "grams"},
			{Name: "Fresh Basil", Quantity: 6, Unit: "leaves"},
			{Name: "Extra Virgin Olive Oil", Quantity: 1, Unit: "tbsp"},
			{Name: "Salt", Quantity: 10, Unit: "grams"},
			{Name: "Active Dry Yeast", Quantity: 7, Unit: "grams"},
		},
	})
	if err != nil {
		return err
	}

	_, err = recipes.Create(ctx, grill.ID, repository.RecipeInput{
		Title:        "Classic Smash Burger",
		Instructions: "Smash the patty on a hot griddle, season, flip once, melt the cheddar, assemble on a toasted bun.",
		YieldAmount:  "1 burger",
		Ingredients: []repository.IngredientLine{
			{Name: "Ground Beef", Quantity: 150, Unit: "grams"},
			{Name: "Brioche Bun", Quantity: 1, Unit: "piece"},
			{Name: "Cheddar Cheese", Quantity: 30, Unit: "grams"},
			{Name: "Iceberg Lettuce", Quantity: 1, Unit: "leaf"},
			{Name: "Red Onion", Quantity: 20, Unit: "grams"},
			{Name: "Dill Pickles", Quantity: 3, Unit: "slices"},
			{Name: "Salt", Quantity: 2, Unit: "grams"},
		},
	})
	return err
}
