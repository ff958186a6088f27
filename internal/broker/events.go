package broker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fishfarm-bot/internal/util"
)

// FarmEvent is the envelope every mirrored fact travels in. Payload is the
// committed record itself.
type FarmEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EventPublisher mirrors committed facts to the farm events topic. It is
// strictly best-effort: the spreadsheet is the source of truth and a
// publish failure is logged, counted and dropped.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher wraps a producer. A nil producer yields a nil
// publisher, which every call site tolerates.
func NewEventPublisher(producer *Producer) *EventPublisher {
	if producer == nil {
		return nil
	}
	return &EventPublisher{producer: producer}
}

func (ep *EventPublisher) Publish(ctx context.Context, eventType string, payload interface{}) {
	if ep == nil {
		return
	}

	event := FarmEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	if err := ep.producer.PublishMessage(ctx, eventType, event); err != nil {
		util.GetLogger().Warn("event publish failed",
			zap.String("type", eventType), zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// Close releases the underlying producer.
func (ep *EventPublisher) Close() error {
	if ep == nil {
		return nil
	}
	return ep.producer.Close()
}
