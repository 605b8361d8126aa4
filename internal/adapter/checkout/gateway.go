package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
)

// Metadata keys carried on the checkout session and echoed back in gateway
// events. They are the only link between a gateway event and domain state.
const (
	MetadataTransactionID = "transaction_id"
	MetadataOrderID       = "order_id"
)

// SessionRequest describes a hosted checkout session to create.
type SessionRequest struct {
	// Amount is in minor currency units.
	Amount        int64
	Currency      string
	SuccessURL    string
	CancelURL     string
	TransactionID string
	OrderID       string
}

// Session is the created hosted checkout session.
type Session struct {
	ID          string
	RedirectURL string
}

// CompletedSession carries the verified fields of a finished checkout.
type CompletedSession struct {
	SessionID     string
	TransactionID string
	OrderID       string
	// AmountTotal is in minor currency units.
	AmountTotal int64
}

// Event is a verified gateway event. Completed is non-nil only for the
// session-completed event type; every other type is reported for logging and
// otherwise ignored by callers.
type Event struct {
	Type      string
	Completed *CompletedSession
}

// Gateway exposes the hosted payment session operations used by the order flow.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifyEvent(payload []byte, signature string) (*Event, error)
}

// Client implements Gateway against the Stripe API.
type Client struct {
	sessions      *session.Client
	webhookSecret string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewClient creates a Stripe-backed gateway client. A nil backend uses the
// live Stripe API; tests inject one pointed at a local server.
func NewClient(apiKey, webhookSecret string, timeout time.Duration, backend stripe.Backend, logger *slog.Logger) *Client {
	if backend == nil {
		backend = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{})
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		sessions:      &session.Client{B: backend, Key: apiKey},
		webhookSecret: webhookSecret,
		timeout:       timeout,
		logger:        logger,
	}
}

// CreateSession requests a hosted checkout session, bounded by the configured
// timeout so an unresponsive gateway never blocks the caller indefinitely.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModePayment)),
		Currency: stripe.String(req.Currency),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Checkout"),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata(MetadataTransactionID, req.TransactionID)
	params.AddMetadata(MetadataOrderID, req.OrderID)

	sess, err := c.sessions.New(params)
	if err != nil {
		c.logger.Error("checkout session creation failed",
			slog.String("order_id", req.OrderID),
			slog.String("error", err.Error()),
		)
		return nil, domainErrors.ErrGatewayUnavailable
	}

	return &Session{ID: sess.ID, RedirectURL: sess.URL}, nil
}

// VerifyEvent checks the payload signature against the shared webhook secret
// and, for session-completed events, extracts the correlation metadata. An
// unverifiable payload is never interpreted.
func (c *Client) VerifyEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, domainErrors.ErrInvalidSignature
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return &Event{Type: string(event.Type)}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	return &Event{
		Type: string(event.Type),
		Completed: &CompletedSession{
			SessionID:     sess.ID,
			TransactionID: sess.Metadata[MetadataTransactionID],
			OrderID:       sess.Metadata[MetadataOrderID],
			AmountTotal:   sess.AmountTotal,
		},
	}, nil
}
