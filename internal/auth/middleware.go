package auth

import (
	"errors"
	"net/http"
	"strings"

	"blog-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireAuth verifies the bearer access token, resolves the principal and
// injects it into the request context. All authentication failures surface
// as one undifferentiated 401; only upstream store failures become 500.
func RequireAuth(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		u, err := s.Authenticate(c.Request.Context(), tok)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrPrincipalNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.FromGin(c).Error("authenticate failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		ctx := WithPrincipal(c.Request.Context(), u)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("user", u)

		c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but never rejects
// the request. Resolvers that need an identity check for it themselves.
func OptionalAuth(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if strings.HasPrefix(raw, bearerPrefix) {
			if u, err := s.Authenticate(c.Request.Context(), strings.TrimPrefix(raw, bearerPrefix)); err == nil {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), u))
				c.Set("user", u)
			}
		}
		c.Next()
	}
}
