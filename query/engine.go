package query

import (
	"context"

	"github.com/satishbabariya/badger-go/query/mapper"
)

// Engine executes descriptors against a database. Implementations apply the
// descriptor timeout (or their own default) and bind its parameters. Errors
// are returned as produced by the driver.
type Engine interface {
	// QueryRows returns a cursor over all result rows. The caller closes it.
	QueryRows(ctx context.Context, d Descriptor) (mapper.Rows, error)

	// QueryScalar returns the first column of the first row, or nil when
	// there is no row or the value is NULL.
	QueryScalar(ctx context.Context, d Descriptor) (any, error)

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, d Descriptor) (int64, error)
}
