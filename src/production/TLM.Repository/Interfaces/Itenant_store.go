package interfaces

import "context"

// TenantStore hands out tenant-scoped storage sessions. Acquire and Release
// form a strict bracket: every acquired session must be released on all exit
// paths, including failures between the two.
type TenantStore interface {
	// Acquire checks a connection out of the shared pool and confines it to
	// the tenant's schema. The slug must already be validated against the
	// tenant directory. Acquisition is bounded by ctx; pool exhaustion
	// surfaces as an error, never a panic.
	Acquire(ctx context.Context, slug string) (TenantSession, error)
}

// TenantSession is a storage session bound to one tenant's schema for the
// duration of one unit of work. It must never be shared across messages or
// requests.
type TenantSession interface {
	Devices() DeviceRepository
	Readings() ReadingRepository
	Locations() LocationRepository

	// Release returns the underlying connection to the pool. A session whose
	// scope cannot be cleanly reset is discarded rather than returned.
	Release(ctx context.Context) error
}
