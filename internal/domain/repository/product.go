package repository

import (
	"context"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	// GetByIDs resolves the given ids to existing products. Missing ids are
	// simply absent from the result; callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}
