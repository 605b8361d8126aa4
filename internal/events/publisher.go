package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// OrderPaidEvent notifies downstream consumers that an order's payment has
// been reconciled. Published at most once per order, on the first applied
// transition.
type OrderPaidEvent struct {
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Amount        int64     `json:"amount"`
	GatewayRef    string    `json:"gateway_ref"`
	PaidAt        time.Time `json:"paid_at"`
}

// Publisher emits order payment events.
type Publisher interface {
	PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPaid(context.Context, OrderPaidEvent) error { return nil }

// KafkaPublisher emits events to a Kafka topic.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// PublishOrderPaid produces the event keyed by order id so per-order ordering
// is preserved.
func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, event OrderPaidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	record := &kgo.Record{Topic: p.topic, Key: []byte(event.OrderID), Value: data}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce order paid event: %w", err)
	}

	p.logger.Info("order paid event published",
		slog.String("order_id", event.OrderID),
		slog.String("topic", p.topic),
	)
	return nil
}

// Close flushes and releases the Kafka client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
