package interfaces

import (
	"context"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
)

type LocationRepository interface {
	GetLocation(ctx context.Context, id int64) (*tlmmodels.Location, error)
	ListLocations(ctx context.Context) ([]tlmmodels.Location, error)
	CreateLocation(ctx context.Context, location *tlmmodels.Location) (*tlmmodels.Location, error)
	UpdateLocation(ctx context.Context, location *tlmmodels.Location) error
	DeleteLocation(ctx context.Context, id int64) error
}
