package test

import (
	"context"
	"time"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByEmail map[string]*model.User
	ByID    map[string]*model.User
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[string]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.ByEmail[user.Email] = user
	s.ByID[user.ID] = user
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	Products map[string]*model.Product
	Err      error
}

// NewProductRepositoryStub constructs stub repository with an initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Products: make(map[string]*model.Product)}
	for _, p := range products {
		stub.Products[p.ID] = p
	}
	return stub
}

// Create stores the product.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	if s.Err != nil {
		return s.Err
	}
	s.Products[product.ID] = product
	return nil
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		return p, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByIDs resolves ids to stored products; missing ids are skipped.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

// List returns all stored products.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		result = append(result, *p)
	}
	return result, nil
}

// AddressRepositoryStub stores addresses in-memory for tests.
type AddressRepositoryStub struct {
	Addresses map[string]*model.Address
	Err       error
}

// NewAddressRepositoryStub constructs stub repository with an initialized map.
func NewAddressRepositoryStub(addresses ...*model.Address) *AddressRepositoryStub {
	stub := &AddressRepositoryStub{Addresses: make(map[string]*model.Address)}
	for _, a := range addresses {
		stub.Addresses[a.ID] = a
	}
	return stub
}

// Create stores the address.
func (s *AddressRepositoryStub) Create(ctx context.Context, address *model.Address) error {
	if s.Err != nil {
		return s.Err
	}
	s.Addresses[address.ID] = address
	return nil
}

// GetForUser returns the address only when owned by the given user.
func (s *AddressRepositoryStub) GetForUser(ctx context.Context, addressID, userID string) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if a, ok := s.Addresses[addressID]; ok && a.UserID == userID {
		return a, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns addresses owned by the given user.
func (s *AddressRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Address, 0, len(s.Addresses))
	for _, a := range s.Addresses {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

// OrderRepositoryStub allows tests to customize order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order) error
	GetByIDFn      func(context.Context, string, string) (*model.Order, error)
	ListFn         func(context.Context, string, model.OrderFilter) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, string, model.OrderStatus) (*model.Order, error)
	CancelFn       func(context.Context, string, string) (*model.Order, error)
	MarkPaidFn     func(context.Context, string) (bool, error)

	Created       []*model.Order
	Orders        []model.Order
	MarkPaidCalls []string
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Created = append(s.Created, order)
	return nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID, userID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID && o.UserID == userID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns orders from configured slice.
func (s *OrderRepositoryStub) List(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID, filter)
	}
	return s.Orders, nil
}

// UpdateStatus applies override or mutates the stored order.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, userID, status)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID && s.Orders[i].UserID == userID {
			s.Orders[i].Status = status
			order := s.Orders[i]
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Cancel applies override or cancels the stored order when still allowed.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, userID)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID && s.Orders[i].UserID == userID {
			if !s.Orders[i].Status.Cancellable() {
				return nil, domainErrors.ErrOrderNotCancellable
			}
			s.Orders[i].Status = model.OrderStatusCancelled
			order := s.Orders[i]
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// MarkPaid records invocations and flips paymentStatus once.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, orderID)
	}
	s.MarkPaidCalls = append(s.MarkPaidCalls, orderID)
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			if s.Orders[i].PaymentStatus != model.PaymentStatusPending {
				return false, nil
			}
			s.Orders[i].PaymentStatus = model.PaymentStatusPaid
			return true, nil
		}
	}
	return false, domainErrors.ErrNotFound
}

// TransactionRepositoryStub allows tests to customize ledger behaviour.
type TransactionRepositoryStub struct {
	CreateFn        func(context.Context, *model.Transaction) error
	GetByIDFn       func(context.Context, string) (*model.Transaction, error)
	MarkCompletedFn func(context.Context, string, string) (bool, error)
	MarkFailedFn    func(context.Context, string, string) (bool, error)
	ListStaleFn     func(context.Context, time.Time, int) ([]model.Transaction, error)

	Created []*model.Transaction
	Entries map[string]*model.Transaction
	Stale   []model.Transaction
}

// NewTransactionRepositoryStub constructs stub repository with an initialized map.
func NewTransactionRepositoryStub(entries ...*model.Transaction) *TransactionRepositoryStub {
	stub := &TransactionRepositoryStub{Entries: make(map[string]*model.Transaction)}
	for _, e := range entries {
		stub.Entries[e.ID] = e
	}
	return stub
}

// Create tracks ledger entry creation.
func (s *TransactionRepositoryStub) Create(ctx context.Context, txn *model.Transaction) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, txn)
	}
	s.Created = append(s.Created, txn)
	if s.Entries == nil {
		s.Entries = make(map[string]*model.Transaction)
	}
	s.Entries[txn.ID] = txn
	return nil
}

// GetByID fetches a ledger entry or returns not found.
func (s *TransactionRepositoryStub) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if txn, ok := s.Entries[id]; ok {
		return txn, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MarkCompleted applies the pending->completed transition once.
func (s *TransactionRepositoryStub) MarkCompleted(ctx context.Context, id, gatewayRef string) (bool, error) {
	if s.MarkCompletedFn != nil {
		return s.MarkCompletedFn(ctx, id, gatewayRef)
	}
	return s.markTerminal(id, gatewayRef, model.TransactionStatusCompleted)
}

// MarkFailed applies the pending->failed transition once.
func (s *TransactionRepositoryStub) MarkFailed(ctx context.Context, id, gatewayRef string) (bool, error) {
	if s.MarkFailedFn != nil {
		return s.MarkFailedFn(ctx, id, gatewayRef)
	}
	return s.markTerminal(id, gatewayRef, model.TransactionStatusFailed)
}

func (s *TransactionRepositoryStub) markTerminal(id, gatewayRef string, status model.TransactionStatus) (bool, error) {
	txn, ok := s.Entries[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if txn.Status != model.TransactionStatusPending {
		return false, nil
	}
	txn.Status = status
	txn.GatewayRef = &gatewayRef
	return true, nil
}

// ListStaleCheckouts returns configured stale entries.
func (s *TransactionRepositoryStub) ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error) {
	if s.ListStaleFn != nil {
		return s.ListStaleFn(ctx, olderThan, limit)
	}
	return s.Stale, nil
}

// FactoryStub bundles repository stubs behind the factory contract.
type FactoryStub struct {
	UserRepo        *UserRepositoryStub
	ProductRepo     *ProductRepositoryStub
	AddressRepo     *AddressRepositoryStub
	OrderRepo       *OrderRepositoryStub
	TransactionRepo *TransactionRepositoryStub
}

// NewFactoryStub constructs a factory with fresh stubs.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		UserRepo:        NewUserRepositoryStub(),
		ProductRepo:     NewProductRepositoryStub(),
		AddressRepo:     NewAddressRepositoryStub(),
		OrderRepo:       &OrderRepositoryStub{},
		TransactionRepo: NewTransactionRepositoryStub(),
	}
}

func (f *FactoryStub) Users() repository.UserRepository               { return f.UserRepo }
func (f *FactoryStub) Products() repository.ProductRepository         { return f.ProductRepo }
func (f *FactoryStub) Addresses() repository.AddressRepository        { return f.AddressRepo }
func (f *FactoryStub) Orders() repository.OrderRepository             { return f.OrderRepo }
func (f *FactoryStub) Transactions() repository.TransactionRepository { return f.TransactionRepo }

var _ repository.Factory = (*FactoryStub)(nil)
