// Package export defines the outbound port for monthly digest reports.
package export

import (
	"context"

	"finsight/internal/core"
)

// DigestWriter appends one row per recomputed monthly digest to an
// external report.
type DigestWriter interface {
	AppendDigest(ctx context.Context, d core.MonthlyDigest) (rowRef string, err error)
}
