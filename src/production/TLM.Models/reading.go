package tlmmodels

import "time"

// Reading is a single immutable telemetry sample. The timestamp is assigned
// by the database at insert time, never by the device.
type Reading struct {
	ID          int64     `json:"id" db:"id"`
	DeviceID    int64     `json:"device_id" db:"device_id"`
	Temperature float64   `json:"temperature" db:"temperature"`
	RelayStatus string    `json:"relay_status" db:"relay_status"`
	IsAlarm     bool      `json:"is_alarm" db:"is_alarm"`
	Timestamp   time.Time `json:"timestamp" db:"ts"`
}
