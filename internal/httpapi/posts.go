package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"blog-platform/internal/auth"
	"blog-platform/internal/post"
	"blog-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePost creates a post owned by the authenticated principal.
func (h Handlers) CreatePost(c *gin.Context) {
	principal, err := auth.Principal(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title and content required"})
		return
	}

	p, err := h.Posts.Create(c.Request.Context(), post.NewPost{
		Title:   req.Title,
		Content: req.Content,
		UserID:  principal.ID,
	})
	if err != nil {
		if errors.Is(err, post.ErrTitleTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "post title already exists"})
			return
		}
		logger.FromGin(c).Error("post create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetPost returns one post by ID.
func (h Handlers) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	p, err := h.Posts.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		logger.FromGin(c).Error("post lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, p)
}
