package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	container "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Container"
)

// HealthController handles health requests
type HealthController struct {
	container *container.ApiContainer
}

// NewHealthController creates a new health controller
func NewHealthController(c *container.ApiContainer) *HealthController {
	return &HealthController{container: c}
}

// RegisterRoutes registers the health routes with Gin
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health/live", c.HealthLive)
	router.GET("/health/ready", c.HealthReady)
}

func (c *HealthController) HealthLive(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (c *HealthController) HealthReady(ctx *gin.Context) {
	status := c.container.HealthCheck(ctx.Request.Context())
	code := http.StatusOK
	if status["status"] != "ok" {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, status)
}
