package test

import (
	"context"
	"sync"

	"github.com/mkarpova/storefront/internal/adapter/checkout"
	"github.com/mkarpova/storefront/internal/events"
)

// GatewayStub simulates the hosted payment gateway.
type GatewayStub struct {
	CreateFn func(context.Context, checkout.SessionRequest) (*checkout.Session, error)
	VerifyFn func([]byte, string) (*checkout.Event, error)

	Sessions []checkout.SessionRequest
}

// CreateSession records the request and returns a configured session.
func (s *GatewayStub) CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	s.Sessions = append(s.Sessions, req)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &checkout.Session{ID: "sess-1", RedirectURL: "https://gateway.example/sess-1"}, nil
}

// VerifyEvent delegates to the override or reports an ignored event type.
func (s *GatewayStub) VerifyEvent(payload []byte, signature string) (*checkout.Event, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(payload, signature)
	}
	return &checkout.Event{Type: "noop"}, nil
}

var _ checkout.Gateway = (*GatewayStub)(nil)

// PublisherStub records published payment events.
type PublisherStub struct {
	PublishFn func(context.Context, events.OrderPaidEvent) error

	mu        sync.Mutex
	Published []events.OrderPaidEvent
}

// PublishOrderPaid stores the event and delegates when configured.
func (s *PublisherStub) PublishOrderPaid(ctx context.Context, event events.OrderPaidEvent) error {
	s.mu.Lock()
	s.Published = append(s.Published, event)
	s.mu.Unlock()
	if s.PublishFn != nil {
		return s.PublishFn(ctx, event)
	}
	return nil
}

var _ events.Publisher = (*PublisherStub)(nil)
