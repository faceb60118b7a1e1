package config

import (
	"testing"
	"time"
)

func TestLoadBridgeConfigDefaults(t *testing.T) {
	t.Setenv("POSTGRES_USER", "telemetry")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := LoadBridgeConfig()
	if err != nil {
		t.Fatalf("LoadBridgeConfig: %v", err)
	}

	if cfg.MQTT.Topic != "+/esp32/+/data" {
		t.Errorf("default topic: got %q", cfg.MQTT.Topic)
	}
	if cfg.MQTT.ClientID != "telemetry-bridge" {
		t.Errorf("default client id: got %q", cfg.MQTT.ClientID)
	}
	if cfg.Ingest.Workers != 4 {
		t.Errorf("default workers: got %d", cfg.Ingest.Workers)
	}
	if cfg.Ingest.QueueSize != 4096 {
		t.Errorf("default queue size: got %d", cfg.Ingest.QueueSize)
	}
	if cfg.Ingest.MessageTimeout != 10*time.Second {
		t.Errorf("default message timeout: got %v", cfg.Ingest.MessageTimeout)
	}
}

func TestLoadBridgeConfigOverrides(t *testing.T) {
	t.Setenv("POSTGRES_USER", "telemetry")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("BROKER_HOST", "broker.internal")
	t.Setenv("BROKER_PORT", "8883")
	t.Setenv("BROKER_TLS", "true")
	t.Setenv("INGEST_WORKERS", "8")
	t.Setenv("MQTT_SHARED_GROUP", "bridge")

	cfg, err := LoadBridgeConfig()
	if err != nil {
		t.Fatalf("LoadBridgeConfig: %v", err)
	}

	if got := cfg.MQTT.GetMQTTBrokerURL(); got != "tcps://broker.internal:8883" {
		t.Errorf("broker url: got %q", got)
	}
	if cfg.Ingest.Workers != 8 {
		t.Errorf("workers override: got %d", cfg.Ingest.Workers)
	}
	if cfg.MQTT.SharedGroup != "bridge" {
		t.Errorf("shared group: got %q", cfg.MQTT.SharedGroup)
	}
}

func TestLoadBridgeConfigRejectsBadWorkerCount(t *testing.T) {
	t.Setenv("POSTGRES_USER", "telemetry")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("INGEST_WORKERS", "0")

	if _, err := LoadBridgeConfig(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "telemetry",
		Password: "secret",
		DBName:   "telemetry",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=telemetry password=secret dbname=telemetry sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}

func TestLoadApiConfigValidation(t *testing.T) {
	t.Setenv("POSTGRES_USER", "telemetry")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("PASSWORD_MIN_LENGTH", "3")

	if _, err := LoadApiConfig(); err == nil {
		t.Fatal("expected error for too-small password minimum length")
	}
}

func TestGetStringSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b ,c,,")

	got := getStringSlice("TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
