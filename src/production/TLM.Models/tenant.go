package tlmmodels

import (
	"regexp"
	"time"
)

// Tenant represents a customer account living in the shared public schema.
// The slug doubles as the storage namespace key and as the first segment of
// every inbound MQTT topic; it is immutable after creation.
type Tenant struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	MQTTUser  string    `json:"mqtt_user" db:"mqtt_user"`
	MQTTPass  string    `json:"mqtt_pass,omitempty" db:"mqtt_pass"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s is an acceptable tenant slug: lowercase
// letters, digits and hyphens only. Every slug used to select a schema must
// pass this check first.
func ValidSlug(s string) bool {
	return s != "" && slugPattern.MatchString(s)
}
