package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

const (
	// DefaultAdjustmentPercentage is applied to budgets created without one.
	DefaultAdjustmentPercentage = 10
	MinAdjustmentPercentage     = 1
	MaxAdjustmentPercentage     = 50

	// BillPaymentTag marks expenses generated by paying a bill reminder.
	BillPaymentTag = "bill-payment"
	// BillPaymentMethod is the payment method recorded for paid bills.
	BillPaymentMethod = "upi"
)

type (
	Period string

	Expense struct {
		ID            string          `json:"id"`
		Amount        decimal.Decimal `json:"amount"`
		Category      string          `json:"category"`
		Description   string          `json:"description"`
		Date          Date            `json:"date"`
		PaymentMethod string          `json:"paymentMethod"`
		IsRecurring   bool            `json:"isRecurring"`
		Tags          []string        `json:"tags,omitempty"`
	}

	Income struct {
		ID              string          `json:"id"`
		Amount          decimal.Decimal `json:"amount"`
		Source          string          `json:"source"`
		Description     string          `json:"description"`
		Date            Date            `json:"date"`
		IsRecurring     bool            `json:"isRecurring"`
		RecurringPeriod Period          `json:"recurringPeriod,omitempty"`
	}

	Budget struct {
		ID                    string          `json:"id"`
		Category              string          `json:"category"`
		Amount                decimal.Decimal `json:"amount"`
		Period                Period          `json:"period"`
		StartDate             Date            `json:"startDate"`
		EndDate               Date            `json:"endDate"` // zero when open-ended
		IsAutomaticAdjustment bool            `json:"isAutomaticAdjustment"`
		AdjustmentPercentage  int             `json:"adjustmentPercentage"`
	}

	SavingsGoal struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		Deadline      Date            `json:"deadline"`
		Category      string          `json:"category,omitempty"`
	}

	BillReminder struct {
		ID              string          `json:"id"`
		Name            string          `json:"name"`
		Amount          decimal.Decimal `json:"amount"`
		DueDate         Date            `json:"dueDate"`
		Category        string          `json:"category"`
		IsRecurring     bool            `json:"isRecurring"`
		RecurringPeriod Period          `json:"recurringPeriod,omitempty"`
		IsPaid          bool            `json:"isPaid"`
	}

	UserProfile struct {
		Name   string `json:"name"`
		Email  string `json:"email,omitempty"`
		Avatar string `json:"avatar,omitempty"`
	}

	Settings struct {
		Language      Language `json:"language"`
		Currency      Currency `json:"currency"`
		Notifications bool     `json:"notifications"`
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidAdjustment = errors.New("invalid adjustment percentage")
)

// IsBudgetPeriod reports whether p is a period a budget can be tracked over.
func (p Period) IsBudgetPeriod() bool {
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// IsRecurringPeriod reports whether p is a period incomes and bills can repeat on.
func (p Period) IsRecurringPeriod() bool {
	switch p {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Title returns the period with its first letter upper-cased.
func (p Period) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

func validateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateRecurrence(isRecurring bool, period Period) error {
	if isRecurring && !period.IsRecurringPeriod() {
		return fmt.Errorf("%w: recurring entries need weekly, monthly, quarterly or yearly", ErrInvalidPeriod)
	}
	if !isRecurring && period != "" {
		return fmt.Errorf("%w: recurring period set on a non-recurring entry", ErrInvalidPeriod)
	}
	return nil
}

func (e Expense) Validate() error {
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if err := validateAmount(i.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return errors.New("empty income source")
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	return validateRecurrence(i.IsRecurring, i.RecurringPeriod)
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := validateAmount(b.Amount); err != nil {
		return err
	}
	if !b.Period.IsBudgetPeriod() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, b.Period)
	}
	if err := b.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !b.EndDate.IsEmpty() && b.EndDate.Before(b.StartDate.Time) {
		return errors.New("end date must not be before start date")
	}
	// Zero is accepted and replaced by the default when the budget is added.
	if b.AdjustmentPercentage != 0 &&
		(b.AdjustmentPercentage < MinAdjustmentPercentage || b.AdjustmentPercentage > MaxAdjustmentPercentage) {
		return ErrInvalidAdjustment
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := validateAmount(g.TargetAmount); err != nil {
		return err
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns the goal completion percentage. It can exceed 100.
func (g SavingsGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func (r BillReminder) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if err := r.DueDate.Validate(); err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return validateRecurrence(r.IsRecurring, r.RecurringPeriod)
}

// PaymentExpense builds the expense recorded when the reminder is paid on day.
func (r BillReminder) PaymentExpense(day Date) Expense {
	return Expense{
		Amount:        r.Amount,
		Category:      r.Category,
		Description:   "Paid: " + r.Name,
		Date:          day,
		PaymentMethod: BillPaymentMethod,
		IsRecurring:   r.IsRecurring,
		Tags:          []string{BillPaymentTag},
	}
}

// Today returns the calendar day of now.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
