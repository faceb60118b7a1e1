package interfaces

import (
	"context"

	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

type UserRepository interface {
	// Create user
	Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error)

	// Read users
	GetByID(ctx context.Context, userID string) (*auth_models.User, error)
	GetByEmail(ctx context.Context, email string) (*auth_models.User, error)

	// GetByEmailWithTenant joins the user with its tenant, filtered to
	// active tenants only; used by login
	GetByEmailWithTenant(ctx context.Context, email string) (*auth_models.User, *tlmmodels.Tenant, error)

	ListByTenant(ctx context.Context, tenantID int64) ([]*auth_models.User, error)

	// UpdateRole changes a user's role within a tenant
	UpdateRole(ctx context.Context, userID string, tenantID int64, role string) (*auth_models.User, error)
}
