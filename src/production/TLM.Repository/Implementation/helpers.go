package implementation

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// Querier is the subset of database/sql execution methods shared by *sql.DB,
// *sql.Conn and *sql.Tx. Tenant-scoped repositories run on whichever the
// session hands them.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// uniqueViolation is the Postgres error code raised when an insert loses a
// uniqueness race.
const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolation
	}
	return false
}
