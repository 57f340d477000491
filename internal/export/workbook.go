// Package export turns a state snapshot into a spreadsheet-shaped workbook.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

// Sheet names, in workbook order.
const (
	SheetExpenses      = "Expenses"
	SheetBudgets       = "Budgets"
	SheetSavingsGoals  = "Savings Goals"
	SheetBillReminders = "Bill Reminders"
	SheetSummary       = "Summary"
)

const (
	namePrefix    = "RupeeTrack_Export_"
	displayLayout = "2 January 2006"
	notAvailable  = "N/A"
)

// Sheet is one tab: a header row followed by data rows of equal width.
type Sheet struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Workbook is a named, ordered set of sheets.
type Workbook struct {
	Name   string  `json:"name"`
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet called name.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames lists the sheet names in order.
func (w Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Builder renders workbooks, resolving category and payment method ids to
// their display names.
type Builder struct {
	categories core.CategoryResolver
	methods    core.PaymentMethodResolver
}

func NewBuilder(categories core.CategoryResolver, methods core.PaymentMethodResolver) *Builder {
	return &Builder{categories: categories, methods: methods}
}

// WorkbookName returns the export name for the given day.
func WorkbookName(today core.Date) string {
	return namePrefix + today.String()
}

// Build renders the snapshot as it stands on today.
func (b *Builder) Build(s core.State, today core.Date) Workbook {
	return Workbook{
		Name: WorkbookName(today),
		Sheets: []Sheet{
			b.expenses(s.Expenses),
			b.budgets(s.Budgets),
			goals(s.SavingsGoals),
			b.bills(s.BillReminders),
			summary(s),
		},
	}
}

func (b *Builder) expenses(items []core.Expense) Sheet {
	sh := Sheet{
		Name:   SheetExpenses,
		Header: []string{"Date", "Description", "Category", "Amount", "Payment Method", "Recurring", "Tags"},
	}
	for _, e := range items {
		tags := notAvailable
		if len(e.Tags) > 0 {
			tags = strings.Join(e.Tags, ", ")
		}
		sh.Rows = append(sh.Rows, []string{
			displayDate(e.Date),
			e.Description,
			b.categories.Resolve(e.Category).Name,
			amount(e.Amount),
			b.methods.ResolvePaymentMethod(e.PaymentMethod).Name,
			yesNo(e.IsRecurring),
			tags,
		})
	}
	return sh
}

func (b *Builder) budgets(items []core.Budget) Sheet {
	sh := Sheet{
		Name:   SheetBudgets,
		Header: []string{"Category", "Amount", "Period", "Start Date", "End Date", "Dynamic Adjustment", "Adjustment %"},
	}
	for _, bu := range items {
		sh.Rows = append(sh.Rows, []string{
			b.categories.Resolve(bu.Category).Name,
			amount(bu.Amount),
			bu.Period.Title(),
			displayDate(bu.StartDate),
			displayDate(bu.EndDate),
			yesNo(bu.IsAutomaticAdjustment),
			strconv.Itoa(bu.AdjustmentPercentage),
		})
	}
	return sh
}

func goals(items []core.SavingsGoal) Sheet {
	sh := Sheet{
		Name:   SheetSavingsGoals,
		Header: []string{"Name", "Target Amount", "Current Amount", "Progress", "Deadline", "Category"},
	}
	for _, g := range items {
		sh.Rows = append(sh.Rows, []string{
			g.Name,
			amount(g.TargetAmount),
			amount(g.CurrentAmount),
			fmt.Sprintf("%d%%", int64(math.Round(g.Progress()))),
			displayDate(g.Deadline),
			orNA(g.Category),
		})
	}
	return sh
}

func (b *Builder) bills(items []core.BillReminder) Sheet {
	sh := Sheet{
		Name:   SheetBillReminders,
		Header: []string{"Name", "Amount", "Due Date", "Category", "Recurring", "Recurring Period", "Paid"},
	}
	for _, r := range items {
		period := notAvailable
		if r.IsRecurring {
			period = orNA(r.RecurringPeriod.Title())
		}
		sh.Rows = append(sh.Rows, []string{
			r.Name,
			amount(r.Amount),
			displayDate(r.DueDate),
			b.categories.Resolve(r.Category).Name,
			yesNo(r.IsRecurring),
			period,
			yesNo(r.IsPaid),
		})
	}
	return sh
}

// Totals are the figures shown on the Summary sheet.
type Totals struct {
	Expenses      decimal.Decimal
	Budget        decimal.Decimal
	Savings       decimal.Decimal
	UpcomingBills decimal.Decimal
}

// ComputeTotals sums every expense, budget amount, goal's saved amount and
// unpaid bill in s.
func ComputeTotals(s core.State) Totals {
	var t Totals
	for _, e := range s.Expenses {
		t.Expenses = t.Expenses.Add(e.Amount)
	}
	for _, b := range s.Budgets {
		t.Budget = t.Budget.Add(b.Amount)
	}
	for _, g := range s.SavingsGoals {
		t.Savings = t.Savings.Add(g.CurrentAmount)
	}
	for _, r := range s.BillReminders {
		if !r.IsPaid {
			t.UpcomingBills = t.UpcomingBills.Add(r.Amount)
		}
	}
	return t
}

func summary(s core.State) Sheet {
	t := ComputeTotals(s)
	return Sheet{
		Name:   SheetSummary,
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Expenses", amount(t.Expenses)},
			{"Total Budget", amount(t.Budget)},
			{"Total Savings", amount(t.Savings)},
			{"Upcoming Bills", amount(t.UpcomingBills)},
		},
	}
}

func displayDate(d core.Date) string {
	if d.IsEmpty() {
		return notAvailable
	}
	return d.Format(displayLayout)
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
