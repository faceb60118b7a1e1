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

// DeviceController handles device and telemetry read requests. Devices are
// normally auto-registered by the ingestion side; the write routes below
// exist for renaming, relocation and cleanup.
type DeviceController struct {
	authMiddleware   *middleware.AuthMiddleware
	tenantMiddleware *middleware.TenantMiddleware
}

// NewDeviceController creates a new device controller
func NewDeviceController(authMiddleware *middleware.AuthMiddleware, tenantMiddleware *middleware.TenantMiddleware) *DeviceController {
	return &DeviceController{
		authMiddleware:   authMiddleware,
		tenantMiddleware: tenantMiddleware,
	}
}

// RegisterRoutes registers the device routes with Gin
func (h *DeviceController) RegisterRoutes(router *gin.Engine) {
	devices := router.Group("/api/devices",
		h.authMiddleware.Authenticate(), h.tenantMiddleware.OpenSession())
	{
		devices.GET("", h.ListDevices)
		devices.GET("/status", h.LatestStatus)
		devices.GET("/:key/history", h.History)

		devices.POST("", h.authMiddleware.RequireAdmin(), h.CreateDevice)
		devices.PATCH("/:key", h.authMiddleware.RequireAdmin(), h.UpdateDevice)
		devices.DELETE("/:key", h.authMiddleware.RequireAdmin(), h.DeleteDevice)
	}
}

// ListDevices returns the tenant's devices, optionally filtered by location
func (h *DeviceController) ListDevices(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var locationID *int64
	if raw := c.Query("location_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	devices, err := session.Devices().ListDevices(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// LatestStatus returns every device joined with its most recent reading
func (h *DeviceController) LatestStatus(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status, err := session.Readings().LatestStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": status})
}

// History returns a device's readings, most recent first
func (h *DeviceController) History(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	deviceKey := c.Param("key")
	device, err := session.Devices().GetByKey(c.Request.Context(), deviceKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	readings, err := session.Readings().HistoryByDeviceKey(c.Request.Context(), deviceKey, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device":   device,
		"readings": readings,
	})
}

type CreateDeviceRequest struct {
	DeviceKey  string `json:"device_key" binding:"required"`
	Name       string `json:"name" binding:"required"`
	LocationID *int64 `json:"location_id"`
}

func (h *DeviceController) CreateDevice(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := session.Devices().CreateDevice(c.Request.Context(), &tlmmodels.Device{
		DeviceKey:  req.DeviceKey,
		Name:       req.Name,
		LocationID: req.LocationID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, device)
}

type UpdateDeviceRequest struct {
	Name       string `json:"name" binding:"required"`
	LocationID *int64 `json:"location_id"`
}

func (h *DeviceController) UpdateDevice(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	device, err := session.Devices().GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	var req UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device.Name = req.Name
	device.LocationID = req.LocationID
	if err := session.Devices().UpdateDevice(c.Request.Context(), device); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, device)
}

func (h *DeviceController) DeleteDevice(c *gin.Context) {
	session, err := middleware.GetTenantSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	device, err := session.Devices().GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	if err := session.Devices().DeleteDevice(c.Request.Context(), device.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
