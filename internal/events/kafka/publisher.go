// Package kafka publishes engine events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/contabot-dev/contabot/internal/events"
)

// Topic carries TransactionPosted events.
const Topic = "transaction_posted"

// Publisher writes events to Kafka, keyed by user so one user's
// transactions stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.TransactionPosted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Publisher)(nil)
