// Package kafka publishes price-changed events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/pricebook/internal/config"
	"github.com/JonMunkholm/pricebook/internal/core"
)

// PriceChangedEvent is the message value written for every applied change.
type PriceChangedEvent struct {
	EventID    string    `json:"event_id"`
	ImportID   string    `json:"import_id"`
	Brand      string    `json:"brand"`
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	ProductID  string    `json:"product_id,omitempty"`
	GroupID    string    `json:"group_id,omitempty"`
	OldPrice   string    `json:"old_price"`
	NewPrice   string    `json:"new_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes price-changed events keyed by brand, so the changes of one
// brand stay ordered within a partition.
type Producer struct {
	writer messageWriter
}

// NewProducer creates a producer for the configured brokers and topic.
func NewProducer(cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Producer{writer: writer}
}

// PublishPriceChanges writes one message per change in the batch.
func (p *Producer) PublishPriceChanges(ctx context.Context, batch core.PriceChangeBatch) error {
	if len(batch.Changes) == 0 {
		return nil
	}

	msgs, err := buildMessages(batch)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d price changes: %w", len(msgs), err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessages(batch core.PriceChangeBatch) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(batch.Changes))
	for _, c := range batch.Changes {
		event := PriceChangedEvent{
			EventID:    uuid.NewString(),
			ImportID:   batch.ImportID,
			Brand:      batch.Brand,
			Type:       string(c.Kind),
			EntityID:   c.EntityID,
			ProductID:  c.ProductID,
			GroupID:    c.GroupID,
			OldPrice:   c.OldPrice,
			NewPrice:   c.NewPrice,
			OccurredAt: batch.OccurredAt,
		}
		value, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("encode price change %s: %w", c.EntityID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(batch.Brand),
			Value: value,
			Time:  batch.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte("price.changed")},
			},
		})
	}
	return msgs, nil
}
