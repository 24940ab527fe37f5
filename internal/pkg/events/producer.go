// Package events publishes domain audit events to Kafka. Publishing is best
// effort: a nil producer (no brokers configured) drops events silently, and
// produce failures are logged, never surfaced to the request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event types emitted by the platform.
const (
	TypeMembershipJoined  = "membership.joined"
	TypeMembershipLeft    = "membership.left"
	TypeMembershipBanned  = "membership.banned"
	TypeResultSubmitted   = "participation.result_submitted"
	TypeParticipationJoin = "participation.joined"
)

// Envelope is the wire form of an audit event.
type Envelope struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"userId"`
	SubjectID  int64     `json:"subjectId"` // community or event id
	OccurredAt time.Time `json:"occurredAt"`
}

// ProducerConfig configures the Kafka producer.
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// Producer writes audit events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewProducer creates a Producer, or nil when no brokers are configured.
func NewProducer(config ProducerConfig, logger zerolog.Logger) *Producer {
	if len(config.Brokers) == 0 {
		return nil
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &Producer{writer: w, logger: logger}
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish emits one audit event keyed by the acting user.
func (p *Producer) Publish(ctx context.Context, eventType string, userID, subjectID int64) {
	if p == nil {
		return
	}

	envelope := Envelope{
		Type:       eventType,
		UserID:     userID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Msg("Failed to marshal audit event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", userID)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn().Err(err).Str("type", eventType).Msg("Failed to publish audit event")
	}
}
