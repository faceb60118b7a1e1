package tlmbridge

import "strings"

// Topic is a parsed inbound topic: {tenant_slug}/esp32/{device_key}/data.
type Topic struct {
	TenantSlug string
	DeviceKey  string
}

// ParseTopic splits a topic string and validates its shape. Only the
// four-segment multi-tenant form is accepted; the legacy single-tenant
// esp32/{device_key}/data form is superseded and rejected.
func ParseTopic(topic string) (Topic, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[1] != "esp32" || parts[3] != "data" {
		return Topic{}, false
	}
	if parts[0] == "" || parts[2] == "" {
		return Topic{}, false
	}
	return Topic{TenantSlug: parts[0], DeviceKey: parts[2]}, true
}
