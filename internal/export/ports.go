package export

import (
	"context"

	"spendsense/internal/core"
)

// TransactionAppender writes a ledger entry to an external export target.
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
