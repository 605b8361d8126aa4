package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/domain/repository"
	"github.com/mkarpova/storefront/internal/usecase"
)

// StorefrontFacade aggregates the application use cases behind one surface for
// the transport and worker layers.
type StorefrontFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	reconcile *usecase.ReconcileUseCase
	repos     repository.Factory
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	reconcile *usecase.ReconcileUseCase,
	repos repository.Factory,
) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, orders: orders, reconcile: reconcile, repos: repos}
}

func (f *StorefrontFacade) Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, string, error) {
	return f.auth.Register(ctx, req)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StorefrontFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) CreateCashOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (*model.Order, error) {
	return f.orders.CreateCashOrder(ctx, userID, req)
}

func (f *StorefrontFacade) CreateGatewayOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (string, error) {
	return f.orders.CreateGatewayOrder(ctx, userID, req)
}

func (f *StorefrontFacade) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return f.orders.GetByID(ctx, orderID, userID)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, userID, filter)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, orderID, userID, status)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return f.orders.Cancel(ctx, orderID, userID)
}

func (f *StorefrontFacade) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error {
	return f.reconcile.HandleEvent(ctx, payload, signature)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	return f.repos.Products().Create(ctx, product)
}

func (f *StorefrontFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.repos.Products().List(ctx)
}

func (f *StorefrontFacade) Product(ctx context.Context, productID string) (*model.Product, error) {
	return f.repos.Products().GetByID(ctx, productID)
}

func (f *StorefrontFacade) CreateAddress(ctx context.Context, address *model.Address) error {
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	return f.repos.Addresses().Create(ctx, address)
}

func (f *StorefrontFacade) Addresses(ctx context.Context, userID string) ([]model.Address, error) {
	return f.repos.Addresses().ListByUser(ctx, userID)
}

func (f *StorefrontFacade) Address(ctx context.Context, addressID, userID string) (*model.Address, error) {
	return f.repos.Addresses().GetForUser(ctx, addressID, userID)
}

func (f *StorefrontFacade) StaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error) {
	return f.repos.Transactions().ListStaleCheckouts(ctx, olderThan, limit)
}
