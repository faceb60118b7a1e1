package interfaces

import (
	"context"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

type TenantRepository interface {
	// ResolveActiveTenant looks a tenant up by slug in the public schema.
	// Unknown and inactive slugs both return (nil, nil); only storage
	// failures return an error.
	ResolveActiveTenant(ctx context.Context, slug string) (*tlmmodels.Tenant, error)

	// GetByID fetches a tenant regardless of its active flag
	GetByID(ctx context.Context, id int64) (*tlmmodels.Tenant, error)

	// GetBySlug fetches a tenant regardless of its active flag
	GetBySlug(ctx context.Context, slug string) (*tlmmodels.Tenant, error)

	// CreateTenant provisions a tenant atomically: tenant row, admin user
	// and the tenant schema, all in one transaction
	CreateTenant(ctx context.Context, tenant *tlmmodels.Tenant, admin *auth_models.User) (*tlmmodels.Tenant, error)

	// SetActive toggles ingestion and login for a tenant
	SetActive(ctx context.Context, slug string, active bool) error
}
