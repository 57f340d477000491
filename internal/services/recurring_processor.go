package services

import (
	"context"
	"fmt"
	"time"

	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
)

// BillRoller is the part of the store the rollover job needs.
type BillRoller interface {
	Snapshot() core.State
	UpdateBillReminder(ctx context.Context, id string, p core.BillReminderPatch) bool
}

// RecurringProcessor moves paid recurring bill reminders whose due date has
// passed to their next due date and marks them unpaid again.
type RecurringProcessor struct {
	bills  BillRoller
	now    func() time.Time
	logger *log.Logger
}

func NewRecurringProcessor(bills BillRoller, logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.Discard()
	}
	return &RecurringProcessor{
		bills:  bills,
		now:    time.Now,
		logger: logger.WithComponent(log.ComponentServices),
	}
}

// WithClock overrides the processor's notion of today.
func (p *RecurringProcessor) WithClock(now func() time.Time) *RecurringProcessor {
	p.now = now
	return p
}

// RollOverPaidBills returns how many reminders were moved forward.
func (p *RecurringProcessor) RollOverPaidBills(ctx context.Context) (int, error) {
	if p.bills == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.Today(p.now())
	reminders := p.bills.Snapshot().BillReminders

	p.logger.InfoContext(ctx, "Processing recurring bills",
		"total", len(reminders),
		"processing_date", today.String())

	rolled := 0
	for _, r := range reminders {
		if !r.IsRecurring || !r.IsPaid || !r.DueDate.Before(today.Time) {
			continue
		}

		next, err := NextDueDate(r.RecurringPeriod, r.DueDate, today)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to compute next due date",
				log.FieldEntityID, r.ID,
				log.FieldError, err)
			continue
		}

		unpaid := false
		if !p.bills.UpdateBillReminder(ctx, r.ID, core.BillReminderPatch{DueDate: &next, IsPaid: &unpaid}) {
			// Deleted since the snapshot was taken.
			continue
		}

		rolled++
		p.logger.InfoContext(ctx, "Rolled recurring bill forward",
			log.FieldOperation, log.OpRollover,
			log.FieldEntityID, r.ID,
			"name", r.Name,
			"previous_due", r.DueDate.String(),
			"next_due", next.String(),
			"period", string(r.RecurringPeriod))
	}

	p.logger.InfoContext(ctx, "Recurring bill processing complete",
		"rolled", rolled,
		"total_checked", len(reminders))

	return rolled, nil
}
