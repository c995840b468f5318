package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"blog-platform/internal/auth"
	"blog-platform/internal/user"
	"blog-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type registerUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Level    int    `json:"level" binding:"gte=0"`
}

// RegisterUser creates a user with the requested privilege level.
func (h Handlers) RegisterUser(c *gin.Context) {
	h.registerUser(c, false)
}

// RegisterUserV2 is the v2 variant: every signup lands on level 1
// regardless of the requested level.
func (h Handlers) RegisterUserV2(c *gin.Context) {
	h.registerUser(c, true)
}

func (h Handlers) registerUser(c *gin.Context, forceLevel bool) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name, email and password (min 8 chars) required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.FromGin(c).Error("password hash failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	level := req.Level
	if forceLevel {
		level = 1
	}

	u, err := h.Users.Register(c.Request.Context(), user.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Level:        level,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}
		logger.FromGin(c).Error("user create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GetUser returns one user by ID.
func (h Handlers) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.FromGin(c).Error("user lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers serves the paginated listing through the read-through cache:
// a hit returns the cached JSON untouched, a miss fills the cache with the
// freshly marshaled page.
func (h Handlers) ListUsers(c *gin.Context) {
	page := intQuery(c, "page")
	size := intQuery(c, "page_size")
	page, size = h.Users.Clamp(page, size)

	key := usersPageKey(page, size)
	ctx := c.Request.Context()

	if h.Cache != nil {
		b, ok, err := h.Cache.Get(ctx, key)
		if err != nil {
			// Cache trouble must not break listings.
			logger.FromGin(c).Error("users cache get failed", "err", err)
		} else if ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	p, err := h.Users.List(ctx, page, size)
	if err != nil {
		logger.FromGin(c).Error("user list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	b, err := json.Marshal(p)
	if err != nil {
		logger.FromGin(c).Error("user list marshal failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, key, b, h.CacheTTL); err != nil {
			logger.FromGin(c).Error("users cache set failed", "err", err)
		}
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func usersPageKey(page, size int) string {
	return fmt.Sprintf("users:page=%d:size=%d", page, size)
}

// intQuery returns 0 for absent or malformed values; the service clamps.
func intQuery(c *gin.Context, name string) int {
	v := c.Query(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
