// Package api provides the HTTP surface: liveness info, the analysis
// endpoint and CORS/preflight handling around the core analyzer.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipchord/clipchord/analyzer"
	"github.com/clipchord/clipchord/internal/config"
)

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// 405 for known paths hit with the wrong method
	router.HandleMethodNotAllowed = true

	router.Use(Recovery())
	router.Use(RequestID())
	router.Use(RequestLogging())
	router.Use(CORS(cfg.Server.AllowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "clipchord",
			"version": version,
		})
	})

	h := NewMusicHandler(cfg, analyzer.New(cfg.Analysis))
	router.GET("/api/process-music", h.Info)
	router.POST("/api/process-music", h.ProcessMusic)

	return router
}
