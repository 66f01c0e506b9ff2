// Package events publishes offer lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/guttosm/fare-offer-service/internal/metrics"
)

// Type names a domain event.
type Type string

const (
	// TypeOffersNormalized is emitted after a provider payload was normalized.
	TypeOffersNormalized Type = "offers_normalized"
	// TypePriceConfirmed is emitted after a confirmed offer passed total verification.
	TypePriceConfirmed Type = "price_confirmed"
)

// Event is the envelope written to the topic.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent creates an event with a fresh identifier.
func NewEvent(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// OffersNormalized is the payload of TypeOffersNormalized.
type OffersNormalized struct {
	PayloadID string `json:"payload_id,omitempty"`
	Solutions int    `json:"solutions"`
	Offers    int    `json:"offers"`
	Skipped   int    `json:"skipped"`
}

// PriceConfirmed is the payload of TypePriceConfirmed.
type PriceConfirmed struct {
	OfferID         string  `json:"offer_id"`
	Currency        string  `json:"currency"`
	GrandTotal      float64 `json:"grand_total"`
	RecomputedTotal float64 `json:"recomputed_total"`
	TotalMatches    bool    `json:"total_matches"`
	Expired         bool    `json:"expired"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig holds the Kafka producer settings.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// KafkaPublisher writes events to a single topic keyed by Event.Key.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher backed by a kafka.Writer.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.Topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish encodes and writes one event.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		metrics.RecordEvent(string(e.Type), "error")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "event_id", Value: []byte(e.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.RecordEvent(string(e.Type), "error")
		return fmt.Errorf("failed to write event to %s: %w", p.topic, err)
	}

	metrics.RecordEvent(string(e.Type), "success")
	log.Debug().
		Str("event_id", e.ID).
		Str("event_type", string(e.Type)).
		Str("key", e.Key).
		Msg("Event published")
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. It is used when Kafka is not configured.
type NoopPublisher struct{}

// Publish discards e.
func (NoopPublisher) Publish(_ context.Context, e Event) error {
	metrics.RecordEvent(string(e.Type), "dropped")
	return nil
}

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
