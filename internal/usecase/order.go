package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkarpova/storefront/internal/adapter/checkout"
	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/domain/repository"
)

// minorUnitsFactor converts catalog currency units into the gateway's minor
// units (e.g. dollars to cents).
const minorUnitsFactor = 100

// CheckoutOptions carries the gateway session parameters shared by all orders.
type CheckoutOptions struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// OrderUseCase encapsulates order creation and lifecycle logic.
type OrderUseCase struct {
	orders       repository.OrderRepository
	products     repository.ProductRepository
	addresses    repository.AddressRepository
	transactions repository.TransactionRepository
	gateway      checkout.Gateway
	opts         CheckoutOptions
	logger       *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	addresses repository.AddressRepository,
	transactions repository.TransactionRepository,
	gateway checkout.Gateway,
	opts CheckoutOptions,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:       orders,
		products:     products,
		addresses:    addresses,
		transactions: transactions,
		gateway:      gateway,
		opts:         opts,
		logger:       logger,
	}
}

// buildOrder runs the precondition chain shared by both creation flows:
// request shape, all-or-nothing product resolution, address ownership. The
// subtotal is recomputed from the item snapshots and never taken from the
// client.
func (u *OrderUseCase) buildOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	distinct := make(map[string]struct{}, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if _, seen := distinct[item.ProductID]; !seen {
			distinct[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	products, err := u.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, fmt.Errorf("%w: one or more products not found", domainErrors.ErrNotFound)
	}

	if _, err := u.addresses.GetForUser(ctx, req.ShippingAddressID, userID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid shipping address", domainErrors.ErrNotFound)
		}
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &model.Order{
		ID:                uuid.NewString(),
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		Items:             items,
		Subtotal:          model.Subtotal(items),
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
	}, nil
}

// CreateCashOrder persists a cash-on-delivery order. No ledger entry, no
// gateway call.
func (u *OrderUseCase) CreateCashOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error) {
	order, err := u.buildOrder(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CreateGatewayOrder persists the order, creates a pending ledger entry and
// requests a hosted checkout session. The writes happen strictly in that
// order so a failure never leaves a ledger entry without an owning order. A
// gateway failure after both writes leaves the order pending/pending; the
// session is simply abandoned.
func (u *OrderUseCase) CreateGatewayOrder(ctx context.Context, userID string, req CreateOrderRequest) (string, error) {
	order, err := u.buildOrder(ctx, userID, req)
	if err != nil {
		return "", err
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return "", err
	}

	txn := &model.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   model.TransactionTypeCheckout,
		Amount: order.Subtotal,
		Status: model.TransactionStatusPending,
	}
	if err := u.transactions.Create(ctx, txn); err != nil {
		return "", err
	}

	session, err := u.gateway.CreateSession(ctx, checkout.SessionRequest{
		Amount:        order.Subtotal * minorUnitsFactor,
		Currency:      u.opts.Currency,
		SuccessURL:    u.opts.SuccessURL,
		CancelURL:     u.opts.CancelURL,
		TransactionID: txn.ID,
		OrderID:       order.ID,
	})
	if err != nil {
		u.logger.Warn("checkout session not started, order remains pending",
			slog.String("order_id", order.ID),
			slog.String("transaction_id", txn.ID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	return session.RedirectURL, nil
}

// GetByID returns the order scoped to its owner.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID, userID)
}

// List returns the user's orders matching the typed filter.
func (u *OrderUseCase) List(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status filter", domainErrors.ErrValidation)
	}
	return u.orders.List(ctx, userID, filter)
}

// UpdateStatus sets the fulfilment status. Only membership in the status enum
// is enforced; payment gating is deliberately not.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, domainErrors.ErrInvalidOrderStatus
	}
	return u.orders.UpdateStatus(ctx, orderID, userID, status)
}

// Cancel cancels the order while it is still pending or processing. Cancelled
// is terminal; a completed ledger entry is not reversed.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return u.orders.Cancel(ctx, orderID, userID)
}
