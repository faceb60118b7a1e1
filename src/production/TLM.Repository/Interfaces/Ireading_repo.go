package interfaces

import (
	"context"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
)

// DefaultHistoryLimit bounds history queries when the caller supplies none.
const DefaultHistoryLimit = 100

type ReadingRepository interface {
	// AppendReading inserts one immutable reading. The row timestamp is
	// assigned by the database, not the caller.
	AppendReading(ctx context.Context, deviceID int64, temperature float64, relayStatus string, isAlarm bool) error

	// LatestStatus returns each device in the schema joined with its most
	// recent reading, for the dashboard status view.
	LatestStatus(ctx context.Context) ([]tlmmodels.DeviceStatus, error)

	// HistoryByDeviceKey returns readings for a device key, most recent
	// first, capped at limit (DefaultHistoryLimit when limit <= 0).
	HistoryByDeviceKey(ctx context.Context, deviceKey string, limit int) ([]tlmmodels.Reading, error)
}
