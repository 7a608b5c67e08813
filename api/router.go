// Package api exposes the collection pipeline over HTTP for the display
// and export collaborators.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/splitboard/api/handler"
	"github.com/use-agent/splitboard/api/middleware"
	"github.com/use-agent/splitboard/collector"
	"github.com/use-agent/splitboard/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if keys configured) → RateLimit
//
// Health endpoint sits outside auth so monitoring probes always work.
func NewRouter(col *collector.Collector, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/healthz", handler.Health(startTime))

	v1 := r.Group("/api/v1")
	if cfg.Auth.Enabled() {
		v1.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	v1.Use(middleware.RateLimit(cfg.RateLimit))
	v1.POST("/compare", handler.Compare(col))

	return r
}
