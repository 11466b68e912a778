package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-microblog/internal/logger"
	"github.com/sbilibin2017/gw-microblog/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=events.go -destination=mock_events_test.go -package=services

// EventPublisher publishes domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AfterCommitFunc schedules fn to run once the transaction carried by ctx
// commits.
type AfterCommitFunc func(ctx context.Context, fn func())

// KafkaEventPublisher publishes events to Kafka as JSON.
type KafkaEventPublisher struct {
	writer      KafkaWriter
	afterCommit AfterCommitFunc
}

// NewKafkaEventPublisher creates a publisher. A nil writer disables
// publishing. With afterCommit set, events raised inside a transaction are
// held back until it commits and dropped on rollback.
func NewKafkaEventPublisher(writer KafkaWriter, afterCommit AfterCommitFunc) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer, afterCommit: afterCommit}
}

// Publish writes the event keyed by its ID. Failures are logged and dropped.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event models.Event) {
	if p.afterCommit == nil {
		p.publish(ctx, event)
		return
	}
	p.afterCommit(ctx, func() { p.publish(ctx, event) })
}

func (p *KafkaEventPublisher) publish(ctx context.Context, event models.Event) {
	log := logger.FromContext(ctx)

	if p.writer == nil {
		log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID, "type", event.Type)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Errorw("Failed to marshal event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Errorw("Failed to publish event to Kafka", "event_id", event.EventID, "type", event.Type, "error", err)
	} else {
		log.Infow("Event published to Kafka", "event_id", event.EventID, "type", event.Type)
	}
}

func newEvent(eventType string, user *models.User, payload map[string]any) models.Event {
	return models.Event{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}
