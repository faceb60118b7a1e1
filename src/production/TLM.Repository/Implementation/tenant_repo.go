package implementation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

type PostgresTenantRepository struct {
	db *sql.DB
}

func NewPostgresTenantRepository(db *sql.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

const tenantColumns = `id, name, slug, mqtt_user, mqtt_pass, is_active, created_at`

// ResolveActiveTenant looks up an active tenant by slug. Unknown and
// inactive slugs both come back as (nil, nil); the ingestion bridge does not
// distinguish them.
func (r *PostgresTenantRepository) ResolveActiveTenant(ctx context.Context, slug string) (*tlmmodels.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM public.tenants WHERE slug = $1 AND is_active = TRUE`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, slug))
}

func (r *PostgresTenantRepository) GetByID(ctx context.Context, id int64) (*tlmmodels.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM public.tenants WHERE id = $1`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresTenantRepository) GetBySlug(ctx context.Context, slug string) (*tlmmodels.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM public.tenants WHERE slug = $1`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, slug))
}

func (r *PostgresTenantRepository) scanTenant(row *sql.Row) (*tlmmodels.Tenant, error) {
	var tenant tlmmodels.Tenant
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.MQTTUser,
		&tenant.MQTTPass, &tenant.IsActive, &tenant.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// CreateTenant provisions a tenant atomically: tenant row, admin user and
// the tenant schema all commit or none do. The schema DDL itself lives in
// the create_tenant_schema stored procedure.
func (r *PostgresTenantRepository) CreateTenant(ctx context.Context, tenant *tlmmodels.Tenant, admin *auth_models.User) (*tlmmodels.Tenant, error) {
	if !tlmmodels.ValidSlug(tenant.Slug) {
		return nil, fmt.Errorf("invalid tenant slug %q", tenant.Slug)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM public.tenants WHERE slug = $1`, tenant.Slug).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("tenant slug %q already in use", tenant.Slug)
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO public.tenants (name, slug, mqtt_user, mqtt_pass)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at
	`, tenant.Name, tenant.Slug, tenant.MQTTUser, tenant.MQTTPass).
		Scan(&tenant.ID, &tenant.IsActive, &tenant.CreatedAt)
	if err != nil {
		return nil, err
	}

	if admin.UserID == "" {
		admin.UserID = uuid.New().String()
	}
	admin.TenantID = tenant.ID
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt

	_, err = tx.ExecContext(ctx, `
		INSERT INTO public.users (user_id, tenant_id, email, password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, admin.UserID, admin.TenantID, admin.Email, admin.Password, admin.Name, admin.Role,
		admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %q already registered", admin.Email)
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `SELECT public.create_tenant_schema($1)`, tenant.Slug); err != nil {
		return nil, fmt.Errorf("create tenant schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return tenant, nil
}

// SetActive toggles a tenant's active flag. Inactive tenants are excluded
// from ingestion and from login.
func (r *PostgresTenantRepository) SetActive(ctx context.Context, slug string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE public.tenants SET is_active = $1 WHERE slug = $2`, active, slug)
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
