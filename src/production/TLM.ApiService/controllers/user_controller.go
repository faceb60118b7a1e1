package controllers

import (
	"database/sql"
	"errors"
	"net/http"

	service "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/auth"
	"gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/middleware"

	"github.com/gin-gonic/gin"
)

// UserController handles user management requests within a tenant
type UserController struct {
	userService    *service.UserService
	authMiddleware *middleware.AuthMiddleware
}

// NewUserController creates a new user controller
func NewUserController(userService *service.UserService, authMiddleware *middleware.AuthMiddleware) *UserController {
	return &UserController{
		userService:    userService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the user routes with Gin
func (h *UserController) RegisterRoutes(router *gin.Engine) {
	users := router.Group("/api/users")
	{
		users.GET("", h.authMiddleware.Authenticate(), h.ListUsers)
		users.PATCH("/:id/role", h.authMiddleware.Authenticate(), h.authMiddleware.RequireAdmin(), h.UpdateRole)
	}
}

// ListUsers returns the users of the caller's tenant
func (h *UserController) ListUsers(c *gin.Context) {
	tenantID, err := middleware.GetTenantIDFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	users, err := h.userService.ListTenantUsers(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole changes another user's role inside the caller's tenant
func (h *UserController) UpdateRole(c *gin.Context) {
	tenantID, err := middleware.GetTenantIDFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	callerID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID := c.Param("id")
	user, err := h.userService.UpdateUserRole(c.Request.Context(), callerID, targetID, tenantID, req.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
