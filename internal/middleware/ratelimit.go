package middleware

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yurikawa/task-tracker-api/internal/config"
	apierrors "github.com/yurikawa/task-tracker-api/internal/errors"
)

// RateLimit applies a fixed-window limit per client IP, backed by
// Redis. Each window is a counter keyed by IP; the first hit sets the
// key's TTL to the window length and the counter expires with it.
//
// When limiting is disabled or no Redis client is configured the
// middleware is a pass-through.
func RateLimit(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimitEnabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the API with it.
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, cfg.RateLimitWindow)
		}

		if count > int64(cfg.RateLimitMax) {
			apierrors.TooManyRequests(c, "Too many requests from this IP, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
