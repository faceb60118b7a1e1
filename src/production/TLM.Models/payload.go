package tlmmodels

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field names and tokens are the legacy device-side vocabulary; the ESP32
// firmware sends them case-for-case and they must not be renamed.
const (
	// RelayStatusUnknown is stored when the payload carries no RELE field.
	RelayStatusUnknown = "DESCONHECIDO"

	// Event types that classify a reading as an alarm.
	EventOutOfRange    = "SAIU_DA_FAIXA"
	EventRepeatedAlert = "ALERTA_REPETITIVO"
)

// FlexNumber accepts either a JSON number or a number-like string. A value
// that is neither leaves the field invalid rather than failing the whole
// payload.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.Value = f
		n.Valid = true
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.Value = f
			n.Valid = true
		}
		return nil
	}

	// Unparseable value: treat the field as absent.
	return nil
}

// DevicePayload is the inbound MQTT message body. Every field is optional;
// absence is a first-class value resolved by the accessor methods below.
type DevicePayload struct {
	Dispositivo *string
	TempAtual   *FlexNumber
	TempLegacy  *FlexNumber
	Rele        *string
	Tipo        *string
}

// UnmarshalJSON binds the firmware's exact field names. The stdlib decoder
// falls back to case-insensitive key matching, which would accept keys the
// devices never send, so fields are extracted from the raw object instead.
func (p *DevicePayload) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Dispositivo = rawString(raw["DISPOSITIVO"])
	p.TempAtual = rawNumber(raw["TEMP_ATUAL"])
	p.TempLegacy = rawNumber(raw["TEMP."])
	p.Rele = rawString(raw["RELE"])
	p.Tipo = rawString(raw["TIPO"])
	return nil
}

func rawString(b json.RawMessage) *string {
	if b == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	return &s
}

func rawNumber(b json.RawMessage) *FlexNumber {
	if b == nil {
		return nil
	}
	var n FlexNumber
	if err := n.UnmarshalJSON(b); err != nil {
		return nil
	}
	return &n
}

// ParseDevicePayload decodes a raw MQTT payload. Only malformed JSON is an
// error; missing or unparseable fields fall back to defaults later.
func ParseDevicePayload(b []byte) (*DevicePayload, error) {
	var p DevicePayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Temperature resolves TEMP_ATUAL, then the legacy TEMP. field, then 0.
func (p *DevicePayload) Temperature() float64 {
	if p.TempAtual != nil && p.TempAtual.Valid {
		return p.TempAtual.Value
	}
	if p.TempLegacy != nil && p.TempLegacy.Valid {
		return p.TempLegacy.Value
	}
	return 0
}

// RelayStatus returns the RELE token or the unknown sentinel.
func (p *DevicePayload) RelayStatus() string {
	if p.Rele != nil && *p.Rele != "" {
		return *p.Rele
	}
	return RelayStatusUnknown
}

// IsAlarm reports whether TIPO matches one of the alarm event types.
// A missing TIPO is never an alarm.
func (p *DevicePayload) IsAlarm() bool {
	if p.Tipo == nil {
		return false
	}
	return *p.Tipo == EventOutOfRange || *p.Tipo == EventRepeatedAlert
}

// DisplayName returns DISPOSITIVO when present, otherwise the device key.
// Used to name auto-registered devices.
func (p *DevicePayload) DisplayName(deviceKey string) string {
	if p.Dispositivo != nil && *p.Dispositivo != "" {
		return *p.Dispositivo
	}
	return deviceKey
}
