package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mkarpova/storefront/internal/adapter/checkout"
	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/repository"
	"github.com/mkarpova/storefront/internal/events"
)

// ReconcileUseCase applies verified gateway events to the ledger and order,
// exactly once per distinct event.
type ReconcileUseCase struct {
	transactions repository.TransactionRepository
	orders       repository.OrderRepository
	gateway      checkout.Gateway
	publisher    events.Publisher
	logger       *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(
	transactions repository.TransactionRepository,
	orders repository.OrderRepository,
	gateway checkout.Gateway,
	publisher events.Publisher,
	logger *slog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		transactions: transactions,
		orders:       orders,
		gateway:      gateway,
		publisher:    publisher,
		logger:       logger,
	}
}

// HandleEvent verifies the raw payload signature and dispatches on the event
// type. Event types other than session completion are accepted and ignored.
func (u *ReconcileUseCase) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}

	if event.Completed == nil {
		u.logger.Info("gateway event ignored", slog.String("event_type", event.Type))
		return nil
	}

	return u.CompleteCheckout(ctx, *event.Completed)
}

// CompleteCheckout moves the ledger entry pending->completed and the order's
// payment status pending->paid. Both transitions are conditional on the
// current state, so duplicate or concurrent deliveries of the same event
// converge to one committed state without double effects.
func (u *ReconcileUseCase) CompleteCheckout(ctx context.Context, sess checkout.CompletedSession) error {
	if sess.TransactionID == "" || sess.OrderID == "" {
		return domainErrors.ErrUnknownCorrelation
	}

	txn, err := u.transactions.GetByID(ctx, sess.TransactionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUnknownCorrelation
		}
		return err
	}

	// The session total must equal the amount recorded at session creation;
	// any difference is left to an operator, never auto-settled.
	if sess.AmountTotal != txn.Amount*minorUnitsFactor {
		u.logger.Error("gateway amount does not match ledger entry",
			slog.String("transaction_id", txn.ID),
			slog.Int64("ledger_amount", txn.Amount),
			slog.Int64("gateway_amount", sess.AmountTotal),
		)
		return domainErrors.ErrAmountMismatch
	}

	orderApplied, err := u.orders.MarkPaid(ctx, sess.OrderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUnknownCorrelation
		}
		return err
	}

	ledgerApplied, err := u.transactions.MarkCompleted(ctx, sess.TransactionID, sess.SessionID)
	if err != nil {
		return err
	}

	if !ledgerApplied && !orderApplied {
		u.logger.Info("duplicate gateway event, already reconciled",
			slog.String("transaction_id", sess.TransactionID),
			slog.String("order_id", sess.OrderID),
		)
		return nil
	}

	if ledgerApplied {
		event := events.OrderPaidEvent{
			OrderID:       sess.OrderID,
			TransactionID: sess.TransactionID,
			UserID:        txn.UserID,
			Amount:        txn.Amount,
			GatewayRef:    sess.SessionID,
			PaidAt:        time.Now().UTC(),
		}
		// State is already committed; a publish failure must not trigger
		// gateway redelivery, which would no-op anyway.
		if err := u.publisher.PublishOrderPaid(ctx, event); err != nil {
			u.logger.Error("order paid event publish failed",
				slog.String("order_id", sess.OrderID),
				slog.String("error", err.Error()),
			)
		}
	}

	u.logger.Info("checkout reconciled",
		slog.String("transaction_id", sess.TransactionID),
		slog.String("order_id", sess.OrderID),
		slog.String("gateway_ref", sess.SessionID),
	)
	return nil
}
