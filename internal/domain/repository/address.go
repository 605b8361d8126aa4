package repository

import (
	"context"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// AddressRepository describes shipping address persistence.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	// GetForUser returns the address only when it belongs to the given user.
	GetForUser(ctx context.Context, addressID, userID string) (*model.Address, error)
	ListByUser(ctx context.Context, userID string) ([]model.Address, error)
}
