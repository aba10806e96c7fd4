package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant is the tenant root of the system. Every recipe and every user
// profile belongs to exactly one restaurant.
type Restaurant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Recipes  []Recipe      `json:"recipes,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Profiles []UserProfile `json:"profiles,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
