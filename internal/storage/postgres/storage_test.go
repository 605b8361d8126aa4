package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS addresses",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS transactions",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_user ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitSchemaError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))

	if err := storage.initSchema(context.Background()); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestUserCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	createdAt := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u-1", "a@b.co", "hash", "A", "B").
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at"}).AddRow(createdAt))

	user := &model.User{ID: "u-1", Email: "a@b.co", PasswordHash: "hash", FirstName: "A", LastName: "B"}
	if err := storage.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !user.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at not populated")
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u-1", "a@b.co", "hash", "A", "B").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	user := &model.User{ID: "u-1", Email: "a@b.co", PasswordHash: "hash", FirstName: "A", LastName: "B"}
	if err := storage.Users().Create(context.Background(), user); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT id, email, password_hash, first_name, last_name, created_at").
		WithArgs("missing@b.co").
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Users().GetByEmail(context.Background(), "missing@b.co"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderCreateWithItems(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("o-1", "u-1", "a-1", int64(25), model.OrderStatusPending, model.PaymentStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("o-1", 0, "p-1", int64(1), int64(5)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("o-1", 1, "p-2", int64(2), int64(10)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	order := &model.Order{
		ID: "o-1", UserID: "u-1", ShippingAddressID: "a-1", Subtotal: 25,
		Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		Items: []model.OrderItem{
			{ProductID: "p-1", Quantity: 1, UnitPrice: 5},
			{ProductID: "p-2", Quantity: 2, UnitPrice: 10},
		},
	}
	if err := storage.Orders().Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderCreateItemInsertRollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("o-1", "u-1", "a-1", int64(5), model.OrderStatusPending, model.PaymentStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("o-1", 0, "p-1", int64(1), int64(5)).
		WillReturnError(errors.New("item insert failed"))
	mock.ExpectRollback()

	order := &model.Order{
		ID: "o-1", UserID: "u-1", ShippingAddressID: "a-1", Subtotal: 5,
		Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		Items: []model.OrderItem{{ProductID: "p-1", Quantity: 1, UnitPrice: 5}},
	}
	if err := storage.Orders().Create(context.Background(), order); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderMarkPaid(t *testing.T) {
	storage, mock := newMockStorage(t)

	t.Run("applied", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET payment_status='paid'").
			WithArgs("o-1").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

		applied, err := storage.Orders().MarkPaid(context.Background(), "o-1")
		if err != nil {
			t.Fatalf("mark paid failed: %v", err)
		}
		if !applied {
			t.Fatal("expected transition applied")
		}
	})

	t.Run("already paid", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET payment_status='paid'").
			WithArgs("o-1").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT 1 FROM orders").
			WithArgs("o-1").
			WillReturnRows(pgxmockv3.NewRows([]string{"?column?"}).AddRow(1))

		applied, err := storage.Orders().MarkPaid(context.Background(), "o-1")
		if err != nil {
			t.Fatalf("duplicate mark paid must not error: %v", err)
		}
		if applied {
			t.Fatal("expected no-op")
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET payment_status='paid'").
			WithArgs("o-missing").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT 1 FROM orders").
			WithArgs("o-missing").
			WillReturnError(pgx.ErrNoRows)

		if _, err := storage.Orders().MarkPaid(context.Background(), "o-missing"); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOrderUpdateStatusCancelledConflict(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE orders SET status").
		WithArgs(model.OrderStatusShipped, "o-1", "u-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT id, user_id, shipping_address_id").
		WithArgs("o-1", "u-1").
		WillReturnRows(pgxmockv3.NewRows([]string{
			"id", "user_id", "shipping_address_id", "subtotal", "status", "payment_status", "created_at", "updated_at",
		}).AddRow("o-1", "u-1", "a-1", int64(25), model.OrderStatusCancelled, model.PaymentStatusPending, now, now))
	mock.ExpectQuery("SELECT order_id, product_id, quantity, unit_price").
		WithArgs([]string{"o-1"}).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id", "product_id", "quantity", "unit_price"}))

	_, err := storage.Orders().UpdateStatus(context.Background(), "o-1", "u-1", model.OrderStatusShipped)
	if !errors.Is(err, domainErrors.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestOrderCancelNotCancellable(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE orders SET status='cancelled'").
		WithArgs("o-1", "u-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT id, user_id, shipping_address_id").
		WithArgs("o-1", "u-1").
		WillReturnRows(pgxmockv3.NewRows([]string{
			"id", "user_id", "shipping_address_id", "subtotal", "status", "payment_status", "created_at", "updated_at",
		}).AddRow("o-1", "u-1", "a-1", int64(25), model.OrderStatusDelivered, model.PaymentStatusPaid, now, now))
	mock.ExpectQuery("SELECT order_id, product_id, quantity, unit_price").
		WithArgs([]string{"o-1"}).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id", "product_id", "quantity", "unit_price"}))

	_, err := storage.Orders().Cancel(context.Background(), "o-1", "u-1")
	if !errors.Is(err, domainErrors.ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestOrderCancelUnknown(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("UPDATE orders SET status='cancelled'").
		WithArgs("o-x", "u-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT id, user_id, shipping_address_id").
		WithArgs("o-x", "u-1").
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Orders().Cancel(context.Background(), "o-x", "u-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderList(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	status := model.OrderStatusPending
	filter := model.OrderFilter{Status: &status, SortBy: "subtotal", SortOrder: model.SortAsc, Page: 2, PageSize: 5}

	mock.ExpectQuery("SELECT id, user_id, shipping_address_id").
		WithArgs("u-1", status, 5, 5).
		WillReturnRows(pgxmockv3.NewRows([]string{
			"id", "user_id", "shipping_address_id", "subtotal", "status", "payment_status", "created_at", "updated_at",
		}).AddRow("o-1", "u-1", "a-1", int64(25), model.OrderStatusPending, model.PaymentStatusPending, now, now))
	mock.ExpectQuery("SELECT order_id, product_id, quantity, unit_price").
		WithArgs([]string{"o-1"}).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id", "product_id", "quantity", "unit_price"}).
			AddRow("o-1", "p-1", int64(1), int64(25)))

	orders, err := storage.Orders().List(context.Background(), "u-1", filter)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Fatalf("expected one order with one item, got %+v", orders)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionMarkCompleted(t *testing.T) {
	storage, mock := newMockStorage(t)

	t.Run("applied", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs(model.TransactionStatusCompleted, "sess-1", "t-1").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

		applied, err := storage.Transactions().MarkCompleted(context.Background(), "t-1", "sess-1")
		if err != nil {
			t.Fatalf("mark completed failed: %v", err)
		}
		if !applied {
			t.Fatal("expected transition applied")
		}
	})

	t.Run("already terminal", func(t *testing.T) {
		now := time.Now()
		ref := "sess-0"
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs(model.TransactionStatusCompleted, "sess-1", "t-1").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT id, user_id, type, amount, status, gateway_ref").
			WithArgs("t-1").
			WillReturnRows(pgxmockv3.NewRows([]string{
				"id", "user_id", "type", "amount", "status", "gateway_ref", "created_at", "updated_at",
			}).AddRow("t-1", "u-1", model.TransactionTypeCheckout, int64(25), model.TransactionStatusCompleted, &ref, now, now))

		applied, err := storage.Transactions().MarkCompleted(context.Background(), "t-1", "sess-1")
		if err != nil {
			t.Fatalf("duplicate completion must not error: %v", err)
		}
		if applied {
			t.Fatal("expected no-op")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs(model.TransactionStatusCompleted, "sess-1", "t-x").
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT id, user_id, type, amount, status, gateway_ref").
			WithArgs("t-x").
			WillReturnError(pgx.ErrNoRows)

		if _, err := storage.Transactions().MarkCompleted(context.Background(), "t-x", "sess-1"); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListStaleCheckouts(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	cutoff := now.Add(-time.Hour)

	mock.ExpectQuery("SELECT id, user_id, type, amount, status, gateway_ref").
		WithArgs(cutoff, 10).
		WillReturnRows(pgxmockv3.NewRows([]string{
			"id", "user_id", "type", "amount", "status", "gateway_ref", "created_at", "updated_at",
		}).AddRow("t-1", "u-1", model.TransactionTypeCheckout, int64(25), model.TransactionStatusPending, nil, now.Add(-2*time.Hour), now))

	entries, err := storage.Transactions().ListStaleCheckouts(context.Background(), cutoff, 10)
	if err != nil {
		t.Fatalf("list stale failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "t-1" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestWithinTransactionRollback(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error {
		return errors.New("inner")
	})
	if err == nil {
		t.Fatal("expected inner error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()

	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
