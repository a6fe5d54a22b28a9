package api

import (
	"net/http"

	"github.com/adilg123/bitarchiver/internal/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	h := NewHandlers(cfg)

	// CORS middleware for public API access
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/health", HandleHealth)
	router.GET("/", h.HandleInfo)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/archive", h.HandleArchive)
		v1.POST("/unarchive", h.HandleUnarchive)
		v1.POST("/trace", h.HandleTrace)
		v1.GET("/info", h.HandleInfo)
		v1.GET("/health", HandleHealth)
	}
}

// NewRouter builds a gin engine with every route registered.
func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	SetupRoutes(router, cfg)
	return router
}
