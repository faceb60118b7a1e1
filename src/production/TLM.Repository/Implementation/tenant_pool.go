package implementation

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
	tlmmodels "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Models"
	interfaces "gitlab.com/frioweb1/frio.telemetry_server/src/production/TLM.Repository/Interfaces"
)

// TenantPool routes a shared *sql.DB into per-tenant schemas. It implements
// interfaces.TenantStore. Schema selection uses only slugs that pass the
// slug allow-list, quoted with pq.QuoteIdentifier; raw string interpolation
// of caller input never reaches SET search_path.
type TenantPool struct {
	db *sql.DB
}

func NewTenantPool(db *sql.DB) *TenantPool {
	return &TenantPool{db: db}
}

// SchemaForSlug maps a tenant slug to its schema name.
func SchemaForSlug(slug string) string {
	return "tenant_" + slug
}

// Acquire checks a dedicated connection out of the pool and points its
// search_path at the tenant's schema. Blocks until a connection is free or
// ctx expires; callers treat failure as retryable, not fatal.
func (p *TenantPool) Acquire(ctx context.Context, slug string) (interfaces.TenantSession, error) {
	if !tlmmodels.ValidSlug(slug) {
		return nil, fmt.Errorf("invalid tenant slug %q", slug)
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection for tenant %s: %w", slug, err)
	}

	setPath := fmt.Sprintf("SET search_path TO %s, public", pq.QuoteIdentifier(SchemaForSlug(slug)))
	if _, err := conn.ExecContext(ctx, setPath); err != nil {
		conn.Close()
		return nil, fmt.Errorf("scope connection to tenant %s: %w", slug, err)
	}

	return &TenantConn{conn: conn, slug: slug}, nil
}

// TenantConn is a pool connection confined to one tenant schema. It is owned
// exclusively by the message or request that acquired it.
type TenantConn struct {
	conn *sql.Conn
	slug string
}

// Slug returns the tenant slug this connection is scoped to.
func (tc *TenantConn) Slug() string {
	return tc.slug
}

func (tc *TenantConn) Devices() interfaces.DeviceRepository {
	return NewPostgresDeviceRepository(tc.conn)
}

func (tc *TenantConn) Readings() interfaces.ReadingRepository {
	return NewPostgresReadingRepository(tc.conn)
}

func (tc *TenantConn) Locations() interfaces.LocationRepository {
	return NewPostgresLocationRepository(tc.conn)
}

// Release resets the search_path and returns the connection to the pool.
// If the reset fails the underlying connection is discarded instead of going
// back still scoped to a tenant schema.
func (tc *TenantConn) Release(ctx context.Context) error {
	if _, err := tc.conn.ExecContext(ctx, "SET search_path TO public"); err != nil {
		tc.conn.Raw(func(driverConn interface{}) error {
			return driver.ErrBadConn
		})
		tc.conn.Close()
		return fmt.Errorf("reset search_path for tenant %s: %w", tc.slug, err)
	}
	return tc.conn.Close()
}
