package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"kelana.id/travelapp/pkg/apperror"
	"kelana.id/travelapp/pkg/response"
)

// checkAndSetRateLimit returns false if the user performed the action within
// the cooldown window. A nil Redis client disables limiting.
func checkAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", action, userID.String())

	ok, err := rdb.SetNX(ctx, key, "1", limit).Result()
	if err != nil {
		// Redis being down should not block writes
		return true, err
	}

	return ok, nil
}

// RateLimit guards a mutation route with a per-user cooldown.
func RateLimit(rdb *redis.Client, action string, limit time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.GetUserID(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		allowed, err := checkAndSetRateLimit(c.Request.Context(), rdb, userID, action, limit)
		if err != nil {
			log.Printf("rate limit check failed for %s: %v", action, err)
		}
		if !allowed {
			response.ResponseError(c, apperror.ErrRateLimitExceeded)
			c.Abort()
			return
		}

		c.Next()
	}
}
