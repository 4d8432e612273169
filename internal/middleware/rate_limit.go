package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimiter counts requests per user in fixed windows stored in Redis.
type RateLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, max: max, window: window}
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.max), nil
}

// Middleware limits authenticated users. A nil limiter or a Redis failure lets the request through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.max <= 0 {
			c.Next()
			return
		}

		userID, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		allowed, err := l.Allow(c.Request.Context(), userID.String())
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			log.WithFields(log.Fields{"user_id": userID.String(), "path": c.FullPath()}).Info("rate limit hit")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many AI requests. Please wait before trying again.",
				"retry_after": l.window.String(),
			})
			return
		}
		c.Next()
	}
}
