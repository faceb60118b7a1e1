package implementation

import (
	"context"
	"database/sql"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

// PostgresDeviceRepository operates on the devices table of whichever tenant
// schema its Querier is scoped to.
type PostgresDeviceRepository struct {
	q Querier
}

func NewPostgresDeviceRepository(q Querier) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{q: q}
}

// EnsureDevice resolves a device key to an id, auto-registering unknown
// devices. The lookup-then-insert is deliberately optimistic: two workers
// racing on the same new key both reach the insert, one wins, the loser gets
// a unique violation and re-fetches. No lock serializes the hot path.
func (r *PostgresDeviceRepository) EnsureDevice(ctx context.Context, deviceKey, fallbackName string) (int64, interfaces.EnsureOutcome, error) {
	id, err := r.touchByKey(ctx, deviceKey)
	if err == nil {
		return id, interfaces.DeviceFound, nil
	}
	if err != sql.ErrNoRows {
		return 0, interfaces.DeviceFound, err
	}

	err = r.q.QueryRowContext(ctx,
		`INSERT INTO devices (device_key, name) VALUES ($1, $2) RETURNING id`,
		deviceKey, fallbackName).Scan(&id)
	if err == nil {
		return id, interfaces.DeviceCreated, nil
	}

	if isUniqueViolation(err) {
		// Lost the insert race; the row exists now.
		id, err = r.touchByKey(ctx, deviceKey)
		if err != nil {
			return 0, interfaces.DeviceRetried, err
		}
		return id, interfaces.DeviceRetried, nil
	}

	return 0, interfaces.DeviceCreated, err
}

// touchByKey looks a device up by key and bumps its last_seen.
func (r *PostgresDeviceRepository) touchByKey(ctx context.Context, deviceKey string) (int64, error) {
	var id int64
	err := r.q.QueryRowContext(ctx,
		`SELECT id FROM devices WHERE device_key = $1`, deviceKey).Scan(&id)
	if err != nil {
		return 0, err
	}

	if _, err := r.q.ExecContext(ctx,
		`UPDATE devices SET last_seen = now() WHERE id = $1`, id); err != nil {
		return 0, err
	}

	return id, nil
}

const deviceColumns = `d.id, d.device_key, d.name, d.location_id, l.name AS location_name, d.last_seen, d.created_at`

func (r *PostgresDeviceRepository) GetDevice(ctx context.Context, id int64) (*tlmmodels.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN locations l ON d.location_id = l.id
		WHERE d.id = $1
	`
	return r.scanDevice(r.q.QueryRowContext(ctx, query, id))
}

func (r *PostgresDeviceRepository) GetByKey(ctx context.Context, deviceKey string) (*tlmmodels.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN locations l ON d.location_id = l.id
		WHERE d.device_key = $1
	`
	return r.scanDevice(r.q.QueryRowContext(ctx, query, deviceKey))
}

func (r *PostgresDeviceRepository) scanDevice(row *sql.Row) (*tlmmodels.Device, error) {
	var device tlmmodels.Device
	err := row.Scan(&device.ID, &device.DeviceKey, &device.Name, &device.LocationID,
		&device.LocationName, &device.LastSeen, &device.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// ListDevices returns the schema's devices ordered by name, optionally
// filtered to one location.
func (r *PostgresDeviceRepository) ListDevices(ctx context.Context, locationID *int64) ([]tlmmodels.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN locations l ON d.location_id = l.id
	`
	args := []interface{}{}
	if locationID != nil {
		query += ` WHERE d.location_id = $1`
		args = append(args, *locationID)
	}
	query += ` ORDER BY d.name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []tlmmodels.Device
	for rows.Next() {
		var device tlmmodels.Device
		if err := rows.Scan(&device.ID, &device.DeviceKey, &device.Name, &device.LocationID,
			&device.LocationName, &device.LastSeen, &device.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, rows.Err()
}

func (r *PostgresDeviceRepository) CreateDevice(ctx context.Context, device *tlmmodels.Device) (*tlmmodels.Device, error) {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO devices (device_key, name, location_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, device.DeviceKey, device.Name, device.LocationID).
		Scan(&device.ID, &device.CreatedAt)
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (r *PostgresDeviceRepository) UpdateDevice(ctx context.Context, device *tlmmodels.Device) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE devices SET name = $1, location_id = $2 WHERE id = $3`,
		device.Name, device.LocationID, device.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteDevice removes a device by explicit administrative action; the
// ingestion path never deletes.
func (r *PostgresDeviceRepository) DeleteDevice(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
