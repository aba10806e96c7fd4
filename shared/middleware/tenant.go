package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/recipe-catalog/shared/repository"
	"github.com/forkful/recipe-catalog/shared/utils"
)

// TenantGuard resolves the calling principal's restaurant from their profile
// once per request and threads it through the gin context. It holds no state
// of its own beyond the profile lookup and a short-lived Redis cache of the
// resolution.
type TenantGuard struct {
	profiles *repository.ProfileRepository
	cacheTTL time.Duration
}

// NewTenantGuard creates a new tenant guard
func NewTenantGuard(profiles *repository.ProfileRepository) *TenantGuard {
	return &TenantGuard{
		profiles: profiles,
		cacheTTL: 5 * time.Minute,
	}
}

// ResolveRestaurant resolves the caller's restaurant after authentication.
// A principal without a profile passes through with no restaurant set;
// handlers treat that as an empty catalog for reads and reject writes.
func (tg *TenantGuard) ResolveRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		restaurantID, err := tg.lookup(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNoProfile) {
				c.Next()
				return
			}
			utils.InternalServerErrorResponse(c, "Failed to resolve restaurant")
			c.Abort()
			return
		}

		c.Set("restaurant_id", restaurantID.String())
		c.Next()
	}
}

// lookup checks the Redis cache before hitting user_profiles. Profiles are
// immutable in this scope, so a short TTL is the only invalidation needed.
// An unavailable Redis falls through to the database.
func (tg *TenantGuard) lookup(ctx context.Context, userID string) (uuid.UUID, error) {
	cacheKey := "profile:restaurant:" + userID
	if cached, err := utils.CacheGet(cacheKey); err == nil {
		if id, err := uuid.Parse(cached); err == nil {
			return id, nil
		}
	}

	restaurantID, err := tg.profiles.RestaurantFor(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}

	_ = utils.CacheSet(cacheKey, restaurantID.String(), tg.cacheTTL)
	return restaurantID, nil
}

// RestaurantFromContext returns the caller's restaurant id and whether a
// profile binding exists for them.
func RestaurantFromContext(c *gin.Context) (uuid.UUID, bool) {
	value := c.GetString("restaurant_id")
	if value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
