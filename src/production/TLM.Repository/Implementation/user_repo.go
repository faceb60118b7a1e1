package implementation

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	auth_models "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models/auth"
)

// PostgresUserRepository manages dashboard users in the shared public
// schema. Users always belong to exactly one tenant.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `user_id, tenant_id, email, password, name, role, created_at, updated_at`

// Create user
func (r *PostgresUserRepository) Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error) {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO public.users (user_id, tenant_id, email, password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query, user.UserID, user.TenantID, user.Email,
		user.Password, user.Name, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Read users
func (r *PostgresUserRepository) GetByID(ctx context.Context, userID string) (*auth_models.User, error) {
	query := `SELECT ` + userColumns + ` FROM public.users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*auth_models.User, error) {
	query := `SELECT ` + userColumns + ` FROM public.users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*auth_models.User, error) {
	var user auth_models.User
	err := row.Scan(&user.UserID, &user.TenantID, &user.Email, &user.Password,
		&user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmailWithTenant joins a user with its tenant, restricted to active
// tenants. Login path only; an inactive tenant locks its users out.
func (r *PostgresUserRepository) GetByEmailWithTenant(ctx context.Context, email string) (*auth_models.User, *tlmmodels.Tenant, error) {
	query := `
		SELECT u.user_id, u.tenant_id, u.email, u.password, u.name, u.role, u.created_at, u.updated_at,
		       t.id, t.name, t.slug, t.mqtt_user, t.mqtt_pass, t.is_active, t.created_at
		FROM public.users u
		JOIN public.tenants t ON u.tenant_id = t.id
		WHERE u.email = $1 AND t.is_active = TRUE
	`

	var user auth_models.User
	var tenant tlmmodels.Tenant

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.UserID, &user.TenantID, &user.Email, &user.Password,
		&user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt,
		&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.MQTTUser,
		&tenant.MQTTPass, &tenant.IsActive, &tenant.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return &user, &tenant, nil
}

func (r *PostgresUserRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*auth_models.User, error) {
	query := `SELECT ` + userColumns + ` FROM public.users WHERE tenant_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*auth_models.User
	for rows.Next() {
		var user auth_models.User
		if err := rows.Scan(&user.UserID, &user.TenantID, &user.Email, &user.Password,
			&user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateRole changes a user's role. Scoped by tenant id so one tenant's
// admin can never touch another tenant's users.
func (r *PostgresUserRepository) UpdateRole(ctx context.Context, userID string, tenantID int64, role string) (*auth_models.User, error) {
	query := `
		UPDATE public.users SET role = $1, updated_at = now()
		WHERE user_id = $2 AND tenant_id = $3
		RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, role, userID, tenantID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, sql.ErrNoRows
	}

	return user, nil
}
