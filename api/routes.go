package api

import (
	"github.com/gin-gonic/gin"
)

// Config holds application configuration
type Config struct {
	Port        string
	MaxFileSize int64
	TempDir     string
}

func SetupRoutes(r *gin.Engine, config *Config) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/clean", func(c *gin.Context) { HandleClean(c, config) })
		apiGroup.POST("/compress", func(c *gin.Context) { HandleCompress(c, config) })
	}
}
