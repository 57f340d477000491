package services

import (
	"context"
	"fmt"
	"time"

	"rupeetrack/internal/amqp"
	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
)

// BillSource is the part of the store the reminder job reads.
type BillSource interface {
	Settings() core.Settings
	BillsDueWithin(days int) []core.BillReminder
}

// ReminderService publishes a bill.due message for every unpaid bill due
// within the lead window, while notifications are switched on.
type ReminderService struct {
	bills     BillSource
	publisher amqp.Publisher
	leadDays  int
	now       func() time.Time
	logger    *log.Logger
}

func NewReminderService(bills BillSource, publisher amqp.Publisher, leadDays int, logger *log.Logger) *ReminderService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReminderService{
		bills:     bills,
		publisher: publisher,
		leadDays:  leadDays,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentServices),
	}
}

// WithClock overrides the clock used to compute days until due.
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// SendDueReminders returns how many reminders were published. Individual
// publish failures are logged and do not stop the run; the last one is
// returned so the scheduler can report it.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	if s.bills == nil {
		return 0, fmt.Errorf("reminder service not properly initialized")
	}

	settings := s.bills.Settings()
	if !settings.Notifications {
		s.logger.DebugContext(ctx, "Notifications disabled, skipping bill reminders")
		return 0, nil
	}
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping bill reminders")
		return 0, nil
	}

	today := core.Today(s.now())
	due := s.bills.BillsDueWithin(s.leadDays)

	sent := 0
	var lastErr error
	for _, r := range due {
		msg := BillDueFrom(r, settings.Currency, today)
		if err := s.publisher.Publish(ctx, amqp.TypeBillDue, msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish bill reminder",
				log.FieldEntityID, r.ID,
				log.FieldError, err)
			lastErr = err
			continue
		}
		sent++
	}

	s.logger.InfoContext(ctx, "Bill reminders processed",
		log.FieldOperation, log.OpRemind,
		log.FieldCount, sent,
		"due", len(due),
		"lead_days", s.leadDays)

	return sent, lastErr
}

// BillDueFrom builds the reminder payload for r as seen on today.
func BillDueFrom(r core.BillReminder, currency core.Currency, today core.Date) amqp.BillDue {
	days := int(r.DueDate.Sub(today.Time).Hours() / 24)
	return amqp.BillDue{
		BillID:       r.ID,
		Name:         r.Name,
		Category:     r.Category,
		Amount:       r.Amount,
		Currency:     currency.ISOCode(),
		Display:      core.FormatAmount(currency, r.Amount),
		DueDate:      r.DueDate.String(),
		DaysUntilDue: days,
	}
}
