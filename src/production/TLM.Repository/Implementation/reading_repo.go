package implementation

import (
	"context"
	"database/sql"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

// PostgresReadingRepository operates on the readings table of whichever
// tenant schema its Querier is scoped to. Readings are append-only; there is
// no update or delete path here.
type PostgresReadingRepository struct {
	q Querier
}

func NewPostgresReadingRepository(q Querier) *PostgresReadingRepository {
	return &PostgresReadingRepository{q: q}
}

// AppendReading inserts one reading. ts is assigned by the database so
// ingestion latency does not skew ordering within the schema.
func (r *PostgresReadingRepository) AppendReading(ctx context.Context, deviceID int64, temperature float64, relayStatus string, isAlarm bool) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO readings (device_id, temperature, relay_status, is_alarm)
		VALUES ($1, $2, $3, $4)
	`, deviceID, temperature, relayStatus, isAlarm)
	return err
}

// LatestStatus joins every device with its most recent reading. Devices that
// have never reported appear with nil reading fields.
func (r *PostgresReadingRepository) LatestStatus(ctx context.Context) ([]tlmmodels.DeviceStatus, error) {
	query := `
		SELECT DISTINCT ON (d.id)
			d.id, d.device_key, d.name, d.location_id, d.last_seen,
			r.temperature, r.relay_status, r.is_alarm, r.ts
		FROM devices d
		LEFT JOIN readings r ON r.device_id = d.id
		ORDER BY d.id, r.ts DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []tlmmodels.DeviceStatus
	for rows.Next() {
		var status tlmmodels.DeviceStatus
		if err := rows.Scan(&status.DeviceID, &status.DeviceKey, &status.Name,
			&status.LocationID, &status.LastSeen,
			&status.Temperature, &status.RelayStatus, &status.IsAlarm, &status.ReadingAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return statuses, rows.Err()
}

// HistoryByDeviceKey returns a device's readings, most recent first.
func (r *PostgresReadingRepository) HistoryByDeviceKey(ctx context.Context, deviceKey string, limit int) ([]tlmmodels.Reading, error) {
	if limit <= 0 {
		limit = interfaces.DefaultHistoryLimit
	}

	query := `
		SELECT r.id, r.device_id, r.temperature, r.relay_status, r.is_alarm, r.ts
		FROM readings r
		JOIN devices d ON r.device_id = d.id
		WHERE d.device_key = $1
		ORDER BY r.ts DESC
		LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, deviceKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanReadings(rows)
}

func (r *PostgresReadingRepository) scanReadings(rows *sql.Rows) ([]tlmmodels.Reading, error) {
	var readings []tlmmodels.Reading

	for rows.Next() {
		var reading tlmmodels.Reading
		if err := rows.Scan(&reading.ID, &reading.DeviceID, &reading.Temperature,
			&reading.RelayStatus, &reading.IsAlarm, &reading.Timestamp); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}
