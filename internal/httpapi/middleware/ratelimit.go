package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tweetsmith/tweetsmith/internal/store/redisstore"
)

// RateLimit applies a fixed per-minute window per client IP. Redis
// trouble fails open: a broken limiter must not take the API down.
func RateLimit(store *redisstore.Store, perMinute int, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + c.ClientIP()
		allowed, err := store.Allow(c.Request.Context(), key, perMinute, time.Minute)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
