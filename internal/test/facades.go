package test

import (
	"context"
	"sync"
	"time"

	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateCashFn    func(context.Context, string, usecase.CreateOrderRequest) (*model.Order, error)
	CreateGatewayFn func(context.Context, string, usecase.CreateOrderRequest) (string, error)
	OrderFn         func(context.Context, string, string) (*model.Order, error)
	OrdersFn        func(context.Context, string, model.OrderFilter) ([]model.Order, error)
	UpdateStatusFn  func(context.Context, string, string, model.OrderStatus) (*model.Order, error)
	CancelFn        func(context.Context, string, string) (*model.Order, error)
}

// CreateCashOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateCashOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (*model.Order, error) {
	if s.CreateCashFn != nil {
		return s.CreateCashFn(ctx, userID, req)
	}
	return &model.Order{ID: "order-1", UserID: userID, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending}, nil
}

// CreateGatewayOrder returns a configured or default redirect URL.
func (s OrderFacadeStub) CreateGatewayOrder(ctx context.Context, userID string, req usecase.CreateOrderRequest) (string, error) {
	if s.CreateGatewayFn != nil {
		return s.CreateGatewayFn(ctx, userID, req)
	}
	return "https://gateway.example/session", nil
}

// Order returns the configured order for the lookup endpoint.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, UserID: userID}, nil
}

// Orders returns predefined orders for the given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID, filter)
	}
	return []model.Order{{ID: "order-1", UserID: userID}}, nil
}

// UpdateOrderStatus delegates or reflects the requested status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, userID, status)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: status}, nil
}

// CancelOrder delegates or returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

// WebhookFacadeStub records gateway event deliveries.
type WebhookFacadeStub struct {
	HandleFn func(context.Context, []byte, string) error

	mu       sync.Mutex
	Payloads [][]byte
}

// HandleGatewayEvent stores the payload and delegates when configured.
func (s *WebhookFacadeStub) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error {
	s.mu.Lock()
	s.Payloads = append(s.Payloads, payload)
	s.mu.Unlock()
	if s.HandleFn != nil {
		return s.HandleFn(ctx, payload, signature)
	}
	return nil
}

// CatalogFacadeStub simulates product and address operations.
type CatalogFacadeStub struct {
	CreateProductFn func(context.Context, *model.Product) error
	ProductsFn      func(context.Context) ([]model.Product, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	CreateAddressFn func(context.Context, *model.Address) error
	AddressesFn     func(context.Context, string) ([]model.Address, error)
	AddressFn       func(context.Context, string, string) (*model.Address, error)
}

// CreateProduct delegates or accepts the product.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, product *model.Product) error {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, product)
	}
	if product.ID == "" {
		product.ID = "product-1"
	}
	return nil
}

// Products returns configured catalog data.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: "product-1", Name: "Widget", Price: 10}}, nil
}

// CreateAddress delegates or accepts the address.
func (s CatalogFacadeStub) CreateAddress(ctx context.Context, address *model.Address) error {
	if s.CreateAddressFn != nil {
		return s.CreateAddressFn(ctx, address)
	}
	if address.ID == "" {
		address.ID = "address-1"
	}
	return nil
}

// Addresses returns configured address data.
func (s CatalogFacadeStub) Addresses(ctx context.Context, userID string) ([]model.Address, error) {
	if s.AddressesFn != nil {
		return s.AddressesFn(ctx, userID)
	}
	return []model.Address{{ID: "address-1", UserID: userID}}, nil
}

// Product returns a single catalog entry.
func (s CatalogFacadeStub) Product(ctx context.Context, productID string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, productID)
	}
	return &model.Product{ID: productID, Name: "Widget", Price: 10}, nil
}

// Address returns a single owned address.
func (s CatalogFacadeStub) Address(ctx context.Context, addressID, userID string) (*model.Address, error) {
	if s.AddressFn != nil {
		return s.AddressFn(ctx, addressID, userID)
	}
	return &model.Address{ID: addressID, UserID: userID}, nil
}

// LedgerFacadeStub mimics worker interactions with the ledger.
type LedgerFacadeStub struct {
	StaleFn func(context.Context, time.Time, int) ([]model.Transaction, error)

	mu    sync.Mutex
	Calls int
	Stale []model.Transaction
}

// StaleCheckouts counts invocations and returns configured entries.
func (s *LedgerFacadeStub) StaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.StaleFn != nil {
		return s.StaleFn(ctx, olderThan, limit)
	}
	return s.Stale, nil
}

// CallCount reports how many scans have run.
func (s *LedgerFacadeStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	WebhookFacadeStub
	CatalogFacadeStub
}
