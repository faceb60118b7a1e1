package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/controllers"
	container "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Container"
	implementation "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Implementation"

	// Auth imports
	authService "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/auth"
	jwt "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/jwt"
	rbac "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/implementation/rbac"
	authMiddleware "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.ApiService/middleware"
	api_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/api"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewApiContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting API Service")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize database")
	}

	// Get database connection
	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to get database connection")
	}

	// Create shared-schema repositories and the tenant-scoped pool
	tenantRepo := implementation.NewPostgresTenantRepository(db)
	userRepo := implementation.NewPostgresUserRepository(db)
	tenantPool := implementation.NewTenantPool(db)

	// Get configuration
	config := ctr.GetConfig()

	// Initialize JWT service for token validation
	jwtConfig := api_models.Config{
		SecretKey:            config.Auth.JWTSecretKey,
		AccessTokenDuration:  config.Auth.AccessTokenDuration,
		RefreshTokenDuration: config.Auth.RefreshTokenDuration,
		Issuer:               config.Auth.JWTIssuer,
	}
	jwtService := jwt.NewService(jwtConfig)

	// Initialize RBAC service
	rbacService := rbac.NewService()

	// Create middleware
	middlewareConfig := authMiddleware.DefaultConfig()
	authMiddlewareInstance := authMiddleware.NewAuthMiddleware(jwtService, rbacService, middlewareConfig)
	tenantMiddlewareInstance := authMiddleware.NewTenantMiddleware(tenantPool, logger, 5*time.Second)

	// Initialize auth services
	authServiceInstance := authService.NewAuthService(&config.Auth, userRepo, tenantRepo, jwtService, rbacService)
	userServiceInstance := authService.NewUserService(userRepo, rbacService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	corsConfig := cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Create controllers and register routes
	authController := controllers.NewAuthController(authServiceInstance, authMiddlewareInstance)
	userController := controllers.NewUserController(userServiceInstance, authMiddlewareInstance)
	locationController := controllers.NewLocationController(authMiddlewareInstance, tenantMiddlewareInstance)
	deviceController := controllers.NewDeviceController(authMiddlewareInstance, tenantMiddlewareInstance)
	tenantController := controllers.NewTenantController(tenantRepo, logger)
	healthController := controllers.NewHealthController(ctr)

	authController.RegisterRoutes(router)
	userController.RegisterRoutes(router)
	locationController.RegisterRoutes(router)
	deviceController.RegisterRoutes(router)
	tenantController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	// Get port from configuration
	port := config.Server.Port

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("API service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
