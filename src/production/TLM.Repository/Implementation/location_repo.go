package implementation

import (
	"context"
	"database/sql"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
)

// PostgresLocationRepository operates on the locations table of whichever
// tenant schema its Querier is scoped to.
type PostgresLocationRepository struct {
	q Querier
}

func NewPostgresLocationRepository(q Querier) *PostgresLocationRepository {
	return &PostgresLocationRepository{q: q}
}

func (r *PostgresLocationRepository) GetLocation(ctx context.Context, id int64) (*tlmmodels.Location, error) {
	var location tlmmodels.Location
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, address, created_at FROM locations WHERE id = $1`, id).
		Scan(&location.ID, &location.Name, &location.Address, &location.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *PostgresLocationRepository) ListLocations(ctx context.Context) ([]tlmmodels.Location, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, address, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []tlmmodels.Location
	for rows.Next() {
		var location tlmmodels.Location
		if err := rows.Scan(&location.ID, &location.Name, &location.Address, &location.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, rows.Err()
}

func (r *PostgresLocationRepository) CreateLocation(ctx context.Context, location *tlmmodels.Location) (*tlmmodels.Location, error) {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO locations (name, address) VALUES ($1, $2) RETURNING id, created_at`,
		location.Name, location.Address).
		Scan(&location.ID, &location.CreatedAt)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (r *PostgresLocationRepository) UpdateLocation(ctx context.Context, location *tlmmodels.Location) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE locations SET name = $1, address = $2 WHERE id = $3`,
		location.Name, location.Address, location.ID)
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

func (r *PostgresLocationRepository) DeleteLocation(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
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
