package main

import (
	"blog-platform/internal/auth"
	"blog-platform/internal/httpapi"
	"blog-platform/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(
	r *gin.Engine,
	h httpapi.Handlers,
	sessions *auth.Service,
	limiter *ratelimit.Limiter,
	gqlHandler gin.HandlerFunc,
) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	v1 := api.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", h.RegisterUser)
			users.POST("/login", h.Login)
			users.POST("/refresh", h.Refresh)

			// Listing is the hot, cacheable path; it is also the only
			// rate-limited one.
			users.GET("", ratelimit.PerClientIP(limiter), h.ListUsers)
			users.GET("/:id", h.GetUser)
		}

		v1.GET("/me", auth.RequireAuth(sessions), h.Me)

		posts := v1.Group("/posts")
		{
			posts.POST("", auth.RequireAuth(sessions), h.CreatePost)
			posts.GET("/:id", h.GetPost)
		}
	}

	// v2 keeps v1 semantics except registration, which pins the level.
	api.POST("/v2/users", h.RegisterUserV2)

	// GraphQL rides the same session service; "me" needs a bearer token,
	// the rest of the schema works anonymously.
	r.POST("/graphql", auth.OptionalAuth(sessions), gqlHandler)
}
