package tlmmodels

import "time"

// Device represents a sensor unit inside a tenant schema. The device_key is
// supplied by the hardware and is unique within the tenant only.
type Device struct {
	ID           int64      `json:"id" db:"id"`
	DeviceKey    string     `json:"device_key" db:"device_key"`
	Name         string     `json:"name" db:"name"`
	LocationID   *int64     `json:"location_id,omitempty" db:"location_id"`
	LocationName *string    `json:"location_name,omitempty" db:"location_name"`
	LastSeen     *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// DeviceStatus is a device joined with its most recent reading, as served to
// the dashboard status view. Reading fields are nil for devices that have
// never reported.
type DeviceStatus struct {
	DeviceID    int64      `json:"device_id"`
	DeviceKey   string     `json:"device_key"`
	Name        string     `json:"name"`
	LocationID  *int64     `json:"location_id,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	RelayStatus *string    `json:"relay_status,omitempty"`
	IsAlarm     *bool      `json:"is_alarm,omitempty"`
	ReadingAt   *time.Time `json:"reading_at,omitempty"`
}
