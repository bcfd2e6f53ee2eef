// Package export defines the outbound port for mirroring transactions to an
// external ledger, with adapters under export/google and export/memory.
package export

import (
	"context"

	"outgo/internal/core"
)

// TransactionAppender writes one transaction to the external ledger and
// returns a backend-specific reference to the written row.
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
