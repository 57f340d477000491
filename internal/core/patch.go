package core

import "github.com/shopspring/decimal"

// Patch types carry the fields of a partial update. A nil field leaves the
// stored value untouched. IDs are never patchable.
type (
	ExpensePatch struct {
		Amount        *decimal.Decimal `json:"amount,omitempty"`
		Category      *string          `json:"category,omitempty"`
		Description   *string          `json:"description,omitempty"`
		Date          *Date            `json:"date,omitempty"`
		PaymentMethod *string          `json:"paymentMethod,omitempty"`
		IsRecurring   *bool            `json:"isRecurring,omitempty"`
		Tags          []string         `json:"tags,omitempty"`
	}

	IncomePatch struct {
		Amount          *decimal.Decimal `json:"amount,omitempty"`
		Source          *string          `json:"source,omitempty"`
		Description     *string          `json:"description,omitempty"`
		Date            *Date            `json:"date,omitempty"`
		IsRecurring     *bool            `json:"isRecurring,omitempty"`
		RecurringPeriod *Period          `json:"recurringPeriod,omitempty"`
	}

	BudgetPatch struct {
		Category              *string          `json:"category,omitempty"`
		Amount                *decimal.Decimal `json:"amount,omitempty"`
		Period                *Period          `json:"period,omitempty"`
		StartDate             *Date            `json:"startDate,omitempty"`
		EndDate               *Date            `json:"endDate,omitempty"`
		IsAutomaticAdjustment *bool            `json:"isAutomaticAdjustment,omitempty"`
		AdjustmentPercentage  *int             `json:"adjustmentPercentage,omitempty"`
	}

	SavingsGoalPatch struct {
		Name          *string          `json:"name,omitempty"`
		TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
		CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
		Deadline      *Date            `json:"deadline,omitempty"`
		Category      *string          `json:"category,omitempty"`
	}

	BillReminderPatch struct {
		Name            *string          `json:"name,omitempty"`
		Amount          *decimal.Decimal `json:"amount,omitempty"`
		DueDate         *Date            `json:"dueDate,omitempty"`
		Category        *string          `json:"category,omitempty"`
		IsRecurring     *bool            `json:"isRecurring,omitempty"`
		RecurringPeriod *Period          `json:"recurringPeriod,omitempty"`
		IsPaid          *bool            `json:"isPaid,omitempty"`
	}

	UserProfilePatch struct {
		Name   *string `json:"name,omitempty"`
		Email  *string `json:"email,omitempty"`
		Avatar *string `json:"avatar,omitempty"`
	}
)

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply merges the patch over e and returns the result.
func (p ExpensePatch) Apply(e Expense) Expense {
	set(&e.Amount, p.Amount)
	set(&e.Category, p.Category)
	set(&e.Description, p.Description)
	set(&e.Date, p.Date)
	set(&e.PaymentMethod, p.PaymentMethod)
	set(&e.IsRecurring, p.IsRecurring)
	if p.Tags != nil {
		e.Tags = append([]string{}, p.Tags...)
	}
	return e
}

func (p IncomePatch) Apply(i Income) Income {
	set(&i.Amount, p.Amount)
	set(&i.Source, p.Source)
	set(&i.Description, p.Description)
	set(&i.Date, p.Date)
	set(&i.IsRecurring, p.IsRecurring)
	set(&i.RecurringPeriod, p.RecurringPeriod)
	return i
}

func (p BudgetPatch) Apply(b Budget) Budget {
	set(&b.Category, p.Category)
	set(&b.Amount, p.Amount)
	set(&b.Period, p.Period)
	set(&b.StartDate, p.StartDate)
	set(&b.EndDate, p.EndDate)
	set(&b.IsAutomaticAdjustment, p.IsAutomaticAdjustment)
	set(&b.AdjustmentPercentage, p.AdjustmentPercentage)
	return b
}

func (p SavingsGoalPatch) Apply(g SavingsGoal) SavingsGoal {
	set(&g.Name, p.Name)
	set(&g.TargetAmount, p.TargetAmount)
	set(&g.CurrentAmount, p.CurrentAmount)
	set(&g.Deadline, p.Deadline)
	set(&g.Category, p.Category)
	return g
}

func (p BillReminderPatch) Apply(r BillReminder) BillReminder {
	set(&r.Name, p.Name)
	set(&r.Amount, p.Amount)
	set(&r.DueDate, p.DueDate)
	set(&r.Category, p.Category)
	set(&r.IsRecurring, p.IsRecurring)
	set(&r.RecurringPeriod, p.RecurringPeriod)
	set(&r.IsPaid, p.IsPaid)
	return r
}

func (p UserProfilePatch) Apply(u UserProfile) UserProfile {
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Avatar, p.Avatar)
	return u
}
