package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blog-platform/internal/auth"
	"blog-platform/internal/post"
	"blog-platform/internal/user"
	"blog-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PageCache is the read-through cache surface for listing endpoints.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Sessions *auth.Service
	Users    *user.Service
	Posts    *post.Service

	Cache    PageCache
	CacheTTL time.Duration
}

/* ===================== SESSION ===================== */

type loginRequest struct {
	// Username carries the account email; the field name is part of the
	// wire contract.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token pair. Wrong password and
// unknown account are deliberately the same 401.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	pair, err := h.Sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	auth.Deliver(c, auth.ClientType(c), pair, h.Sessions.Tokens().RefreshTTL())
}

// Refresh rotates a token pair. The refresh token arrives either in the
// web cookie or in the request body; an absent or invalid token means the
// caller must log in again.
func (h Handlers) Refresh(c *gin.Context) {
	token := refreshTokenFrom(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	pair, err := h.Sessions.Refresh(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	auth.Deliver(c, auth.ClientType(c), pair, h.Sessions.Tokens().RefreshTTL())
}

func refreshTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(auth.RefreshCookieName); err == nil && v != "" {
		return v
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

// Me returns the authenticated principal.
func (h Handlers) Me(c *gin.Context) {
	u, err := auth.Principal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, u)
}
