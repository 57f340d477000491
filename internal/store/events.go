package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a change applied to the store.
type EventType string

const (
	ExpenseCreated  EventType = "expense.created"
	ExpenseUpdated  EventType = "expense.updated"
	ExpenseDeleted  EventType = "expense.deleted"
	IncomeCreated   EventType = "income.created"
	IncomeUpdated   EventType = "income.updated"
	IncomeDeleted   EventType = "income.deleted"
	BudgetCreated   EventType = "budget.created"
	BudgetUpdated   EventType = "budget.updated"
	BudgetDeleted   EventType = "budget.deleted"
	BudgetAdjusted  EventType = "budget.adjusted"
	GoalCreated     EventType = "goal.created"
	GoalUpdated     EventType = "goal.updated"
	GoalDeleted     EventType = "goal.deleted"
	BillCreated     EventType = "bill.created"
	BillUpdated     EventType = "bill.updated"
	BillDeleted     EventType = "bill.deleted"
	BillPaid        EventType = "bill.paid"
	SettingsUpdated EventType = "settings.updated"
	ProfileUpdated  EventType = "profile.updated"
)

// Event describes one applied change. Amount and Category are set when the
// entity carries them; Previous holds the old amount of an adjusted budget.
type Event struct {
	Type     EventType       `json:"type"`
	EntityID string          `json:"entityId,omitempty"`
	Name     string          `json:"name,omitempty"`
	Category string          `json:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Previous decimal.Decimal `json:"previous"`
	At       time.Time       `json:"at"`
}

// Notifier receives events after the mutation that produced them is visible
// and persisted. Implementations must not call back into the store's mutations
// synchronously.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e Event)

func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }
