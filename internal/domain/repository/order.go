package repository

import (
	"context"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. All reads and
// status mutations are scoped to the owning user.
type OrderRepository interface {
	// Create persists the order together with its item snapshots in one
	// transaction.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, orderID, userID string) (*model.Order, error)
	List(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error)
	// Cancel moves the order to cancelled only while it is still pending or
	// processing; otherwise ErrStateConflict.
	Cancel(ctx context.Context, orderID, userID string) (*model.Order, error)
	// MarkPaid transitions paymentStatus pending->paid. The boolean reports
	// whether the transition was applied; false with nil error means the order
	// was already paid.
	MarkPaid(ctx context.Context, orderID string) (bool, error)
}
