package ratelimit

import (
	"context"
	"net/http"

	"blog-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Allower is the admission check the middleware consults.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// PerClientIP limits requests per caller IP on the routes it wraps.
// Redis failures fail open: a broken limiter must not take the API down.
func PerClientIP(l Allower) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), "ratelimit:"+c.ClientIP())
		if err != nil {
			logger.FromGin(c).Error("rate limit check failed", "err", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "Too Many Requests",
				"detail": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
