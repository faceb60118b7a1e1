package tlmbridge

import "testing"

func TestParseTopic(t *testing.T) {
	cases := []struct {
		name  string
		topic string
		ok    bool
		slug  string
		key   string
	}{
		{"valid", "acme/esp32/A1B2C3D4/data", true, "acme", "A1B2C3D4"},
		{"slug with digits and dash", "cold-chain-2/esp32/FRZ-01/data", true, "cold-chain-2", "FRZ-01"},
		{"legacy three segment form", "esp32/A1B2C3D4/data", false, "", ""},
		{"too many segments", "acme/esp32/A1/B2/data", false, "", ""},
		{"wrong source segment", "acme/esp8266/A1/data", false, "", ""},
		{"wrong suffix", "acme/esp32/A1/status", false, "", ""},
		{"empty slug", "/esp32/A1/data", false, "", ""},
		{"empty device key", "acme/esp32//data", false, "", ""},
		{"empty string", "", false, "", ""},
	}

	for _, tc := range cases {
		got, ok := ParseTopic(tc.topic)
		if ok != tc.ok {
			t.Errorf("%s: ok=%v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if got.TenantSlug != tc.slug || got.DeviceKey != tc.key {
			t.Errorf("%s: got %+v, want slug=%q key=%q", tc.name, got, tc.slug, tc.key)
		}
	}
}
