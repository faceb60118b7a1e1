package controllers

import (
	"net/http"
	"time"

	service "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/auth"
	"gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/middleware"

	"github.com/gin-gonic/gin"
)

// AuthController handles authentication requests
type AuthController struct {
	authService    *service.AuthService
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *service.AuthService, authMiddleware *middleware.AuthMiddleware) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the auth routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshTokens)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.authMiddleware.Authenticate(), h.Me)
		auth.POST("/invite", h.authMiddleware.Authenticate(), h.authMiddleware.RequireAdmin(), h.Invite)
	}
}

// Register handles self-service tenant signup: the tenant, its schema and
// its first admin user are created in one shot. Broker credentials are
// returned once, in this response only.
func (h *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, tokenPair, err := h.authService.RegisterTenant(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.setRefreshCookie(c, tokenPair.RefreshToken, tokenPair.ExpiresAt)
	c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, tokenPair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.setRefreshCookie(c, tokenPair.RefreshToken, tokenPair.ExpiresAt)
	c.JSON(http.StatusOK, response)
}

// RefreshTokens handles token refresh
func (h *AuthController) RefreshTokens(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found"})
		return
	}

	response, tokenPair, err := h.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.setRefreshCookie(c, tokenPair.RefreshToken, tokenPair.ExpiresAt)
	c.JSON(http.StatusOK, response)
}

// Logout clears the refresh token cookie
func (h *AuthController) Logout(c *gin.Context) {
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Invite adds a user to the caller's tenant. Admin only.
func (h *AuthController) Invite(c *gin.Context) {
	tenantID, err := middleware.GetTenantIDFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req service.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Invite(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}

// Me returns the authenticated user and its tenant. Broker credentials are
// included for admins only.
func (h *AuthController) Me(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	tenant, err := h.authService.GetTenantByID(c.Request.Context(), user.TenantID)
	if err != nil || tenant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	tenantBody := gin.H{
		"name":      tenant.Name,
		"slug":      tenant.Slug,
		"is_active": tenant.IsActive,
	}
	if middleware.IsAdmin(c) {
		tenantBody["mqtt_user"] = tenant.MQTTUser
		tenantBody["mqtt_pass"] = tenant.MQTTPass
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tenant": tenantBody,
	})
}

func (h *AuthController) setRefreshCookie(c *gin.Context, refreshToken string, expiresAt int64) {
	c.SetCookie(
		"refresh_token",
		refreshToken,
		int(time.Until(time.Unix(expiresAt, 0)).Seconds()),
		"/",
		"",
		false, // Set to true in production with HTTPS
		true,  // HTTP only
	)
}
