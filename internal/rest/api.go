package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghostsmart/ghost-gateway/blog/application"
	"github.com/ghostsmart/ghost-gateway/internal/config"
	"github.com/ghostsmart/ghost-gateway/internal/middleware"
)

// NewApi registers all routes. Health and metadata stay unauthenticated;
// everything under /api requires the service API key when one is configured.
func NewApi(router *gin.Engine, cfg *config.Config, service *application.PostService) {
	health := NewHealthHandler(cfg)
	posts := NewPostHandler(cfg, service)

	router.GET("/", health.Root)
	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api", middleware.RequireAPIKey(cfg.APIKey))
	{
		apiGroup.POST("/posts", posts.CreatePost)
		apiGroup.POST("/smart-create", posts.SmartCreate)
		apiGroup.GET("/posts", posts.ListPosts)
		apiGroup.GET("/posts/advanced", posts.AdvancedSearch)
		apiGroup.GET("/posts/summary", posts.Summary)
		apiGroup.GET("/posts/search/by-date-pattern", posts.FindByDatePattern)
		apiGroup.POST("/posts/batch-details", posts.BatchDetails)
		apiGroup.GET("/posts/:postId", posts.GetPost)
		apiGroup.PUT("/posts/:postId", posts.UpdatePost)
		apiGroup.PATCH("/posts/:postId", posts.UpdatePost)
		apiGroup.PUT("/posts/:postId/image", posts.UpdateImage)
		apiGroup.DELETE("/posts/:postId", posts.DeletePost)
	}
}
