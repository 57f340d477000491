package worker

import (
	"context"

	"rupeetrack/internal/services"
)

// Job names.
const (
	JobReminders = "bill-reminders"
	JobRollover  = "bill-rollover"
	JobExport    = "sheets-export"
)

// ReminderJob publishes bill.due messages on schedule.
func ReminderJob(schedule string, svc *services.ReminderService) Job {
	return Job{Name: JobReminders, Schedule: schedule, Run: svc.SendDueReminders}
}

// RolloverJob moves paid recurring bills to their next due date on schedule.
func RolloverJob(schedule string, p *services.RecurringProcessor) Job {
	return Job{Name: JobRollover, Schedule: schedule, Run: p.RollOverPaidBills}
}

// ExportJob writes the workbook export on schedule. With an empty schedule
// the job only runs on demand.
func ExportJob(schedule string, svc *services.ExportService) Job {
	return Job{
		Name:     JobExport,
		Schedule: schedule,
		Run: func(ctx context.Context) (int, error) {
			wb, err := svc.Export(ctx)
			if err != nil {
				return 0, err
			}
			return len(wb.Sheets), nil
		},
	}
}
