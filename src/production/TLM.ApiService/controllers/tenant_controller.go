package controllers

import (
	"database/sql"
	"errors"
	"net/http"

	"gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/middleware"
	logger "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Logger"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"

	"github.com/gin-gonic/gin"
)

// TenantController handles platform-operator tenant administration. These
// routes cross tenant boundaries and are guarded by the operator secret, not
// by tenant user tokens.
type TenantController struct {
	tenantRepo interfaces.TenantRepository
	logger     *logger.Logger
}

// NewTenantController creates a new tenant controller
func NewTenantController(tenantRepo interfaces.TenantRepository, log *logger.Logger) *TenantController {
	return &TenantController{
		tenantRepo: tenantRepo,
		logger:     log.WithComponent("tenant_controller"),
	}
}

// RegisterRoutes registers the operator tenant routes with Gin
func (h *TenantController) RegisterRoutes(router *gin.Engine) {
	tenants := router.Group("/internal/tenants", middleware.OperatorAuthMiddleware())
	{
		tenants.GET("/:slug", h.GetTenant)
		tenants.PATCH("/:slug/active", h.SetActive)
	}
}

// GetTenant returns a tenant by slug, active or not
func (h *TenantController) GetTenant(c *gin.Context) {
	tenant, err := h.tenantRepo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tenant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	c.JSON(http.StatusOK, tenant)
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive toggles a tenant's active flag. Deactivation cuts off both
// ingestion and login for the tenant without touching its data.
func (h *TenantController) SetActive(c *gin.Context) {
	slug := c.Param("slug")

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tenantRepo.SetActive(c.Request.Context(), slug, *req.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.WithTenant(slug).WithField("active", *req.Active).Info("tenant active flag changed")
	c.JSON(http.StatusOK, gin.H{"slug": slug, "active": *req.Active})
}
