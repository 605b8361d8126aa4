package repository

import (
	"context"
	"time"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// TransactionRepository manages payment ledger entries. Entries are append-only
// except for the single pending->terminal transition.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	// MarkCompleted transitions status pending->completed and stamps the
	// gateway reference. The boolean reports whether the transition was
	// applied; false with nil error means the entry was already terminal.
	MarkCompleted(ctx context.Context, id, gatewayRef string) (bool, error)
	MarkFailed(ctx context.Context, id, gatewayRef string) (bool, error)
	// ListStaleCheckouts returns pending checkout entries created before the
	// cutoff, for operator reporting.
	ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error)
}
