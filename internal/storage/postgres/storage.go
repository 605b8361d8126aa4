package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/domain/repository"
)

// DBPool is the subset of pgxpool.Pool used by the storage layer.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type addressRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type transactionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Addresses() repository.AddressRepository {
	return &addressRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(id),
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price BIGINT NOT NULL,
            thumbnail TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(id),
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            state TEXT NOT NULL,
            postal_code TEXT NOT NULL,
            country TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(id),
            shipping_address_id TEXT NOT NULL REFERENCES addresses(id),
            subtotal BIGINT NOT NULL,
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id TEXT NOT NULL REFERENCES orders(id),
            position INT NOT NULL,
            product_id TEXT NOT NULL,
            quantity BIGINT NOT NULL,
            unit_price BIGINT NOT NULL,
            PRIMARY KEY (order_id, position)
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(id),
            type TEXT NOT NULL,
            amount BIGINT NOT NULL,
            status TEXT NOT NULL,
            gateway_ref TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, first_name, last_name, created_at
                   FROM users WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, first_name, last_name, created_at
                   FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (id, user_id, name, description, price, thumbnail)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	return r.storage.pool.QueryRow(ctx, query, product.ID, product.UserID, product.Name,
		product.Description, product.Price, product.Thumbnail).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT id, user_id, name, description, price, thumbnail, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	const query = `SELECT id, user_id, name, description, price, thumbnail, created_at, updated_at
                   FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT id, user_id, name, description, price, thumbnail, created_at, updated_at
                   FROM products ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AddressRepository implementation ---

func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	const query = `INSERT INTO addresses (id, user_id, street, city, state, postal_code, country)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	return r.storage.pool.QueryRow(ctx, query, address.ID, address.UserID, address.Street,
		address.City, address.State, address.PostalCode, address.Country).
		Scan(&address.CreatedAt)
}

func (r *addressRepository) GetForUser(ctx context.Context, addressID, userID string) (*model.Address, error) {
	const query = `SELECT id, user_id, street, city, state, postal_code, country, created_at
                   FROM addresses WHERE id=$1 AND user_id=$2`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, addressID, userID).
		Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID string) ([]model.Address, error) {
	const query = `SELECT id, user_id, street, city, state, postal_code, country, created_at
                   FROM addresses WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, shipping_address_id, subtotal, status, payment_status, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.ShippingAddressID, &o.Subtotal,
		&o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, user_id, shipping_address_id, subtotal, status, payment_status)
                             VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.ShippingAddressID,
			order.Subtotal, order.Status, order.PaymentStatus).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, position, product_id, quantity, unit_price)
                            VALUES ($1, $2, $3, $4, $5)`
		for i, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, i, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, orderID, userID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 AND user_id=$2`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, userID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// sortColumns is the allow-list mapping API sort fields to SQL columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"subtotal":  "subtotal",
	"status":    "status",
}

func (r *orderRepository) List(ctx context.Context, userID string, filter model.OrderFilter) ([]model.Order, error) {
	filter.Normalize()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1`
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += fmt.Sprintf(" AND id IN (SELECT order_id FROM order_items WHERE product_id=$%d)", len(args))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == model.SortAsc {
		direction = "ASC"
	}
	args = append(args, filter.PageSize, filter.Offset())
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", column, direction, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Order, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	const query = `SELECT order_id, product_id, quantity, unit_price
                   FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) (*model.Order, error) {
	// Cancelled is terminal; a status update never resurrects it.
	query := `UPDATE orders SET status=$1, updated_at=NOW()
              WHERE id=$2 AND user_id=$3 AND status <> 'cancelled'
              RETURNING ` + orderColumns
	var order model.Order
	err := scanOrder(r.storage.pool.QueryRow(ctx, query, status, orderID, userID), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, orderID, userID); getErr != nil {
				return nil, getErr
			}
			return nil, domainErrors.ErrStateConflict
		}
		return nil, err
	}

	if err := r.loadItems(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Cancel(ctx context.Context, orderID, userID string) (*model.Order, error) {
	query := `UPDATE orders SET status='cancelled', updated_at=NOW()
              WHERE id=$1 AND user_id=$2 AND status IN ('pending', 'processing')
              RETURNING ` + orderColumns
	var order model.Order
	err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, userID), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, orderID, userID); getErr != nil {
				return nil, getErr
			}
			return nil, domainErrors.ErrOrderNotCancellable
		}
		return nil, err
	}

	if err := r.loadItems(ctx, []*model.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	const query = `UPDATE orders SET payment_status='paid', updated_at=NOW()
                   WHERE id=$1 AND payment_status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, orderID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	const exists = `SELECT 1 FROM orders WHERE id=$1`
	var one int
	if err := r.storage.pool.QueryRow(ctx, exists, orderID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domainErrors.ErrNotFound
		}
		return false, err
	}
	return false, nil
}

// --- TransactionRepository implementation ---

const transactionColumns = `id, user_id, type, amount, status, gateway_ref, created_at, updated_at`

func scanTransaction(row pgx.Row, t *model.Transaction) error {
	return row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.GatewayRef, &t.CreatedAt, &t.UpdatedAt)
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	const query = `INSERT INTO transactions (id, user_id, type, amount, status)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	return r.storage.pool.QueryRow(ctx, query, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Status).
		Scan(&txn.CreatedAt, &txn.UpdatedAt)
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	var txn model.Transaction
	if err := scanTransaction(r.storage.pool.QueryRow(ctx, query, id), &txn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) markTerminal(ctx context.Context, id, gatewayRef string, status model.TransactionStatus) (bool, error) {
	const query = `UPDATE transactions SET status=$1, gateway_ref=$2, updated_at=NOW()
                   WHERE id=$3 AND status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, status, gatewayRef, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Either unknown id or an entry that already reached a terminal status.
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *transactionRepository) MarkCompleted(ctx context.Context, id, gatewayRef string) (bool, error) {
	return r.markTerminal(ctx, id, gatewayRef, model.TransactionStatusCompleted)
}

func (r *transactionRepository) MarkFailed(ctx context.Context, id, gatewayRef string) (bool, error) {
	return r.markTerminal(ctx, id, gatewayRef, model.TransactionStatusFailed)
}

func (r *transactionRepository) ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
              WHERE type='checkout' AND status='pending' AND created_at < $1
              ORDER BY created_at LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
