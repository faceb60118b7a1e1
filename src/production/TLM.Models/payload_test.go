package tlmmodels

import "testing"

func TestFlexNumberUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		value float64
		valid bool
	}{
		{"json number", `3.25`, 3.25, true},
		{"negative number", `-18`, -18, true},
		{"numeric string", `"4.50"`, 4.5, true},
		{"padded numeric string", `" 2.0 "`, 2.0, true},
		{"non numeric string", `"quente"`, 0, false},
		{"boolean", `true`, 0, false},
		{"null", `null`, 0, false},
	}

	for _, tc := range cases {
		var n FlexNumber
		if err := n.UnmarshalJSON([]byte(tc.raw)); err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if n.Valid != tc.valid {
			t.Errorf("%s: valid=%v, want %v", tc.name, n.Valid, tc.valid)
		}
		if n.Valid && n.Value != tc.value {
			t.Errorf("%s: value=%v, want %v", tc.name, n.Value, tc.value)
		}
	}
}

func TestParseDevicePayload(t *testing.T) {
	p, err := ParseDevicePayload([]byte(`{"DISPOSITIVO":"Camara Fria 1","TEMP_ATUAL":"4.50","RELE":"LIGADO","TIPO":"periodico"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := p.Temperature(); got != 4.5 {
		t.Errorf("Temperature() = %v, want 4.5", got)
	}
	if got := p.RelayStatus(); got != "LIGADO" {
		t.Errorf("RelayStatus() = %q, want LIGADO", got)
	}
	if p.IsAlarm() {
		t.Error("periodico must not classify as alarm")
	}
	if got := p.DisplayName("A1B2C3"); got != "Camara Fria 1" {
		t.Errorf("DisplayName() = %q", got)
	}
}

func TestParseDevicePayloadRejectsMalformed(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[1,2]`, `"just a string"`, `42`} {
		if _, err := ParseDevicePayload([]byte(raw)); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestPayloadDefaults(t *testing.T) {
	p, err := ParseDevicePayload([]byte(`{}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := p.Temperature(); got != 0 {
		t.Errorf("Temperature() = %v, want 0", got)
	}
	if got := p.RelayStatus(); got != RelayStatusUnknown {
		t.Errorf("RelayStatus() = %q, want %q", got, RelayStatusUnknown)
	}
	if p.IsAlarm() {
		t.Error("empty payload must not classify as alarm")
	}
	if got := p.DisplayName("FRZ-01"); got != "FRZ-01" {
		t.Errorf("DisplayName() = %q, want the device key", got)
	}
}

func TestTemperaturePrecedence(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"current field wins over legacy", `{"TEMP_ATUAL": 1.0, "TEMP.": 9.0}`, 1.0},
		{"legacy field alone", `{"TEMP.": -3.5}`, -3.5},
		{"invalid current falls to legacy", `{"TEMP_ATUAL": "n/a", "TEMP.": 2.0}`, 2.0},
		{"both invalid falls to zero", `{"TEMP_ATUAL": "x", "TEMP.": "y"}`, 0},
	}
	for _, tc := range cases {
		p, err := ParseDevicePayload([]byte(tc.raw))
		if err != nil {
			t.Fatalf("%s: parse: %v", tc.name, err)
		}
		if got := p.Temperature(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsAlarm(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"TIPO":"SAIU_DA_FAIXA"}`, true},
		{`{"TIPO":"ALERTA_REPETITIVO"}`, true},
		{`{"TIPO":"periodico"}`, false},
		{`{"TIPO":"saiu_da_faixa"}`, false},
		{`{"TIPO":""}`, false},
		{`{}`, false},
	}
	for _, tc := range cases {
		p, err := ParseDevicePayload([]byte(tc.raw))
		if err != nil {
			t.Fatalf("parse %s: %v", tc.raw, err)
		}
		if got := p.IsAlarm(); got != tc.want {
			t.Errorf("%s: IsAlarm() = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFieldTagsAreCaseSensitive(t *testing.T) {
	// Lowercase keys come from something other than the firmware and are
	// ignored, falling back to defaults.
	p, err := ParseDevicePayload([]byte(`{"temp_atual": 9.9, "rele": "LIGADO", "tipo": "SAIU_DA_FAIXA"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Temperature() != 0 || p.RelayStatus() != RelayStatusUnknown || p.IsAlarm() {
		t.Errorf("lowercase keys must not bind: temp=%v relay=%q alarm=%v",
			p.Temperature(), p.RelayStatus(), p.IsAlarm())
	}
}
