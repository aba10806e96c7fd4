package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/recipe-catalog/shared/models"
)

// ProfileRepository resolves and manages the binding of external user
// identities to restaurants.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// RestaurantFor returns the restaurant the given user belongs to, or
// ErrNoProfile when the user has no binding.
func (p *ProfileRepository) RestaurantFor(ctx context.Context, userID string) (uuid.UUID, error) {
	var profile models.UserProfile
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrNoProfile
		}
		return uuid.Nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return profile.RestaurantID, nil
}

// Create binds a user to a restaurant. A user can hold only one profile.
func (p *ProfileRepository) Create(ctx context.Context, userID string, restaurantID uuid.UUID) (*models.UserProfile, error) {
	profile := models.UserProfile{
		UserID:       userID,
		RestaurantID: restaurantID,
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRestaurantNotFound
			}
			return fmt.Errorf("failed to fetch restaurant: %w", err)
		}

		var existing models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&existing).Error; err == nil {
			return ErrDuplicateProfile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing profile: %w", err)
		}

		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
