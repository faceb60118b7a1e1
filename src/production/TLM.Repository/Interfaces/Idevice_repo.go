package interfaces

import (
	"context"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
)

// EnsureOutcome tags how EnsureDevice obtained the device id.
type EnsureOutcome int

const (
	// DeviceFound means the device already existed and last_seen was bumped.
	DeviceFound EnsureOutcome = iota
	// DeviceCreated means the device was auto-registered by this call.
	DeviceCreated
	// DeviceRetried means this call lost the insert race to a concurrent
	// writer and re-fetched the winner's row. Expected and benign.
	DeviceRetried
)

func (o EnsureOutcome) String() string {
	switch o {
	case DeviceFound:
		return "found"
	case DeviceCreated:
		return "created"
	case DeviceRetried:
		return "retried"
	}
	return "unknown"
}

type DeviceRepository interface {
	// EnsureDevice upserts a device by key inside the current tenant schema.
	// Existing device: last_seen is set to now. Unknown device: a row is
	// inserted named fallbackName. The check-then-act race on concurrent
	// first messages is resolved optimistically: a unique violation on the
	// insert re-fetches instead of failing.
	EnsureDevice(ctx context.Context, deviceKey, fallbackName string) (int64, EnsureOutcome, error)

	// Read devices
	GetDevice(ctx context.Context, id int64) (*tlmmodels.Device, error)
	GetByKey(ctx context.Context, deviceKey string) (*tlmmodels.Device, error)
	ListDevices(ctx context.Context, locationID *int64) ([]tlmmodels.Device, error)

	// Admin operations
	CreateDevice(ctx context.Context, device *tlmmodels.Device) (*tlmmodels.Device, error)
	UpdateDevice(ctx context.Context, device *tlmmodels.Device) error
	DeleteDevice(ctx context.Context, id int64) error
}
