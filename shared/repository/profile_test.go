package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantForResolvesBinding(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepository(db)
	restaurantID := createRestaurant(t, db, "Pizza Palace")

	_, err := profiles.Create(context.Background(), "chef_tony", restaurantID)
	require.NoError(t, err)

	resolved, err := profiles.RestaurantFor(context.Background(), "chef_tony")
	require.NoError(t, err)
	assert.Equal(t, restaurantID, resolved)
}

func TestRestaurantForWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepository(db)

	_, err := profiles.RestaurantFor(context.Background(), "stranger")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestCreateRejectsSecondProfile(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepository(db)
	pizzaID := createRestaurant(t, db, "Pizza Palace")
	burgerID := createRestaurant(t, db, "Burger Barn")

	_, err := profiles.Create(context.Background(), "chef_tony", pizzaID)
	require.NoError(t, err)

	_, err = profiles.Create(context.Background(), "chef_tony", burgerID)
	assert.ErrorIs(t, err, ErrDuplicateProfile)

	// The original binding is untouched.
	resolved, err := profiles.RestaurantFor(context.Background(), "chef_tony")
	require.NoError(t, err)
	assert.Equal(t, pizzaID, resolved)
}

func TestCreateRejectsUnknownRestaurant(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepository(db)

	_, err := profiles.Create(context.Background(), "chef_tony", uuid.New())
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
