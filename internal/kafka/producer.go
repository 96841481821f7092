package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
)

// BookingEvent is published after a booking-lifecycle transaction
// commits. Delivery is best-effort; the database is the source of
// truth.
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingKind string    `json:"booking_type"`
	BookingID   int64     `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Decision    string    `json:"decision,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BookingEvent) Key() string {
	return fmt.Sprintf("%s:%d", e.BookingKind, e.BookingID)
}

type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		logger: slog.Default().With("component", "kafka.Producer"),
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.logger.Debug("published event", "topic", topic, "key", key)
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
