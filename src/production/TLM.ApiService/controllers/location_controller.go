package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/middleware"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"

	"github.com/gin-gonic/gin"
)

// LocationController handles location management requests. All routes run
// inside a tenant session, so every query is confined to the caller's
// schema.
type LocationController struct {
	authMiddleware   *middleware.AuthMiddleware
	tenantMiddleware *middleware.TenantMiddleware
}

// NewLocationController creates a new location controller
func NewLocationController(authMiddleware *middleware.AuthMiddleware, tenantMiddleware *middleware.TenantMiddleware) *LocationController {
	return &LocationController{
		authMiddleware:   authMiddleware,
		tenantMiddleware: tenantMiddleware,
	}
}

// RegisterRoutes registers the location routes with Gin
func (h *LocationController) RegisterRoutes(router *gin.Engine) {
	locations := router.Group("/api/locations",
		h.authMiddleware.Authenticate(), h.tenantMiddleware.OpenSession())
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.POST("", h.authMiddleware.RequireAdmin(), h.CreateLocation)
		locations.PATCH("/:id", h.authMiddleware.RequireAdmin(), h.UpdateLocation)
		locations.DELETE("/:id", h.authMiddleware.RequireAdmin(), h.DeleteLocation)
	}
}

type LocationRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

func (h *LocationController) ListLocations(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	locations, err := session.Locations().ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *LocationController) GetLocation(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	location, err := session.Locations().GetLocation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationController) CreateLocation(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := session.Locations().CreateLocation(c.Request.Context(), &tlmmodels.Location{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationController) UpdateLocation(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location := &tlmmodels.Location{ID: id, Name: req.Name, Address: req.Address}
	if err := session.Locations().UpdateLocation(c.Request.Context(), location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationController) DeleteLocation(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	if err := session.Locations().DeleteLocation(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
