package handlers

import (
	"context"

	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateCashOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (*model.Order, error)
	CreateGatewayOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (string, error)
	Order(ctx context.Context, orderID, userID string) (*model.Order, error)
	Orders(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error)
}

// WebhookFacade processes raw gateway notifications.
type WebhookFacade interface {
	HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error
}

// CatalogFacade provides product and shipping address operations.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, productID string) (*model.Product, error)
	CreateAddress(ctx context.Context, address *model.Address) error
	Addresses(ctx context.Context, userID string) ([]model.Address, error)
	Address(ctx context.Context, addressID, userID string) (*model.Address, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	OrderFacade
	WebhookFacade
	CatalogFacade
}
