package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a globally shared ingredient name. Rows are created lazily on
// first use, matched by exact (case-sensitive) name, never renamed, and never
// deleted while any recipe line references them.
type Ingredient struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName returns the table name for the Ingredient model
func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Recipe is owned by exactly one restaurant. UpdatedAt is refreshed on every
// mutation, including a replacement of the ingredient list.
type Recipe struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Instructions string    `json:"instructions" gorm:"type:text"`
	YieldAmount  string    `json:"yield_amount" gorm:"type:varchar(100)"`
	RestaurantID uuid.UUID `json:"restaurant_id" gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Restaurant  *Restaurant        `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one line of a recipe's ingredient list. A recipe cannot
// list the same ingredient twice, and Position preserves submission order so
// the detail view reads back lines exactly as they were sent. Lines are only
// ever replaced wholesale, never patched individually.
type RecipeIngredient struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID     uuid.UUID `json:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uuid.UUID `json:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	Quantity     float64   `json:"quantity" gorm:"type:numeric(10,2);not null"`
	Unit         string    `json:"unit" gorm:"type:varchar(50)"`
	Position     int       `json:"position"`

	// Relationships
	Recipe     *Recipe     `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for the RecipeIngredient model
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
