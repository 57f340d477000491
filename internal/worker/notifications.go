package worker

import (
	"context"

	"rupeetrack/internal/amqp"
	"rupeetrack/internal/log"
)

// NotificationHandler consumes the notifications queue and turns messages into
// log lines; bill reminders at info, change events at debug.
type NotificationHandler struct {
	logger *log.Logger
}

func NewNotificationHandler(logger *log.Logger) *NotificationHandler {
	if logger == nil {
		logger = log.Discard()
	}
	return &NotificationHandler{logger: logger.WithComponent(log.ComponentWorker)}
}

// Handle processes a single message. Payloads that cannot be decoded fail
// with amqp.ErrMalformed and are dropped by the consumer.
func (h *NotificationHandler) Handle(ctx context.Context, msg *amqp.Message) error {
	if msg.Type == amqp.TypeBillDue {
		var due amqp.BillDue
		if err := msg.Decode(&due); err != nil {
			return err
		}
		h.logger.InfoContext(ctx, "Bill due",
			log.FieldEntityID, due.BillID,
			"name", due.Name,
			log.FieldAmount, due.Display,
			"due_date", due.DueDate,
			"days_until_due", due.DaysUntilDue)
		return nil
	}

	var ev amqp.ChangeEvent
	if err := msg.Decode(&ev); err != nil {
		return err
	}
	args := []any{
		log.FieldEvent, msg.Type,
		log.FieldEntityID, ev.EntityID,
		log.FieldAmount, ev.Amount.String(),
	}
	if ev.Previous != nil {
		args = append(args, "previous", ev.Previous.String())
	}
	h.logger.DebugContext(ctx, "Change event", args...)
	return nil
}
