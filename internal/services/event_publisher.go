package services

import (
	"context"

	"rupeetrack/internal/amqp"
	"rupeetrack/internal/log"
	"rupeetrack/internal/store"
)

// EventPublisher forwards store change events to the message broker. It is
// installed as the store's Notifier; publish failures are logged and dropped.
type EventPublisher struct {
	publisher amqp.Publisher
	logger    *log.Logger
}

var _ store.Notifier = (*EventPublisher)(nil)

// NewEventPublisher returns a notifier publishing through p. A nil p turns
// every event into a no-op.
func NewEventPublisher(p amqp.Publisher, logger *log.Logger) *EventPublisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &EventPublisher{publisher: p, logger: logger.WithComponent(log.ComponentServices)}
}

func (p *EventPublisher) Notify(ctx context.Context, e store.Event) {
	if p.publisher == nil {
		p.logger.DebugContext(ctx, "AMQP client not available, skipping event", log.FieldEvent, string(e.Type))
		return
	}

	if err := p.publisher.Publish(ctx, string(e.Type), ChangeEventFrom(e)); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldEvent, string(e.Type),
			log.FieldEntityID, e.EntityID,
			log.FieldError, err)
		// Don't fail the mutation - state is already persisted
	}
}

// ChangeEventFrom converts a store event to its wire payload.
func ChangeEventFrom(e store.Event) amqp.ChangeEvent {
	ce := amqp.ChangeEvent{
		EntityID: e.EntityID,
		Name:     e.Name,
		Category: e.Category,
		Amount:   e.Amount,
		At:       e.At,
	}
	if e.Type == store.BudgetAdjusted {
		prev := e.Previous
		ce.Previous = &prev
	}
	return ce
}
