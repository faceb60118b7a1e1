package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tlmbridge "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Bridge"
	container "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Container"
	implementation "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Implementation"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewBridgeContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting Telemetry Bridge Service")

	// Get configuration
	config := ctr.GetConfig()

	// Get database connection
	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to connect to database")
	}

	// Create the tenant directory and the scoped connection pool
	tenantRepo := implementation.NewPostgresTenantRepository(db)
	tenantPool := implementation.NewTenantPool(db)

	// Create and start the ingestion bridge
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := tlmbridge.New(config, tenantRepo, tenantPool, logger)
	if err := bridge.Start(ctx); err != nil {
		logger.FatalWithError(err, "Failed to start ingestion bridge")
	}

	// Start health check server
	go startHealthServer(ctr, bridge)

	logger.Info("Ingestion bridge running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")
	cancel()
	bridge.Stop()
}

// startHealthServer starts a simple HTTP server for health checks
func startHealthServer(ctr *container.BridgeContainer, bridge *tlmbridge.Bridge) {
	logger := ctr.GetLogger()

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// Check MQTT connection
		mqttStatus := "disconnected"
		if bridge.IsConnected() {
			mqttStatus = "connected"
		}

		// Check database connection
		dbStatus := "disconnected"
		if db, err := ctr.GetDatabase(); err == nil {
			if err := db.PingContext(ctx); err == nil {
				dbStatus = "connected"
			}
		}

		status := "healthy"
		if mqttStatus != "connected" || dbStatus != "connected" {
			status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if status == "healthy" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": map[string]string{
				"mqtt":     mqttStatus,
				"postgres": dbStatus,
			},
			"messages": bridge.Stats().Snapshot(),
		})
	})

	port := ctr.GetConfig().Server.Port
	logger.Info("Health server starting on port " + port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.FatalWithError(err, "Failed to start health server")
	}
}
