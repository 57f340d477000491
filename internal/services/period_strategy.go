// Package services provides orchestration around the store: event
// publishing, bill reminders and recurring bill rollover.
//
// This file implements the Strategy Pattern for stepping a due date by its
// recurring period. Each period has its own strategy so new periods can be
// registered without touching the rollover logic.
package services

import (
	"fmt"
	"time"

	"rupeetrack/internal/core"
)

// PeriodStepper advances a due date by one recurrence.
type PeriodStepper interface {
	// Next returns the due date one period after from. anchorDay is the day of
	// month the series was created on, so month-based steps can return to it
	// after a clamp (Jan 31 -> Feb 28 -> Mar 31).
	Next(from core.Date, anchorDay int) core.Date
}

// WeeklyStepper moves the due date forward seven days.
type WeeklyStepper struct{}

func (WeeklyStepper) Next(from core.Date, _ int) core.Date {
	return from.AddDays(7)
}

// MonthStepper moves the due date forward a fixed number of months, clamping
// the day to the end of shorter months.
type MonthStepper struct {
	Months int
}

func (s MonthStepper) Next(from core.Date, anchorDay int) core.Date {
	return addMonthsClamped(from, s.Months, anchorDay)
}

func addMonthsClamped(from core.Date, months, anchorDay int) core.Date {
	if anchorDay <= 0 {
		anchorDay = from.Day()
	}
	first := time.Date(from.Year(), from.Time.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := anchorDay
	if day > lastDay {
		day = lastDay
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

// periodStrategies maps recurring periods to their steppers.
var periodStrategies = map[core.Period]PeriodStepper{
	core.Weekly:    WeeklyStepper{},
	core.Monthly:   MonthStepper{Months: 1},
	core.Quarterly: MonthStepper{Months: 3},
	core.Yearly:    MonthStepper{Months: 12},
}

// GetPeriodStepper returns the stepper for a recurring period.
func GetPeriodStepper(period core.Period) (PeriodStepper, error) {
	stepper, ok := periodStrategies[period]
	if !ok {
		return nil, fmt.Errorf("unknown recurring period: %s", period)
	}
	return stepper, nil
}

// RegisterPeriodStepper registers a stepper for a new period.
func RegisterPeriodStepper(period core.Period, stepper PeriodStepper) {
	periodStrategies[period] = stepper
}

// NextDueDate steps due forward by period until it is on or after today.
// A due date already on or after today is returned unchanged.
func NextDueDate(period core.Period, due, today core.Date) (core.Date, error) {
	stepper, err := GetPeriodStepper(period)
	if err != nil {
		return core.Date{}, err
	}
	anchor := due.Day()
	next := due
	for next.Before(today.Time) {
		next = stepper.Next(next, anchor)
	}
	return next, nil
}
