// Package kafka publishes ledger events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/ports/publishers"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives TransferCompleted events when no topic is configured.
const DefaultTopic = "ledger.transfer.completed"

const eventTypeHeader = "event-type"

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded events keyed by transaction ID.
type Publisher struct {
	writer messageWriter
}

var _ publishers.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
	})
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// PublishTransferCompleted writes event to the topic. Messages for the same
// transaction share a key and therefore a partition.
func (p *Publisher) PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transfer completed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte("TransferCompleted")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write transfer completed event %s: %w", event.TransactionID, err)
	}
	return nil
}

// Close flushes buffered messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
