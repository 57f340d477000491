package store

import (
	"sort"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/analytics"
	"rupeetrack/internal/core"
)

// UpcomingWindowDays is how far ahead UpcomingBills looks, inclusive.
const UpcomingWindowDays = 30

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() core.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Settings() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

func (s *Store) Profile() core.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Profile
}

func lookup[T any](s *Store, items func() []T, id string, idOf func(T) string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := items()
	if i := indexOf(list, id, idOf); i >= 0 {
		return list[i], true
	}
	var zero T
	return zero, false
}

func (s *Store) Expense(id string) (core.Expense, bool) {
	e, ok := lookup(s, func() []core.Expense { return s.state.Expenses }, id, expenseID)
	return e.Clone(), ok
}

func (s *Store) Income(id string) (core.Income, bool) {
	return lookup(s, func() []core.Income { return s.state.Incomes }, id, incomeID)
}

func (s *Store) Budget(id string) (core.Budget, bool) {
	return lookup(s, func() []core.Budget { return s.state.Budgets }, id, budgetID)
}

func (s *Store) SavingsGoal(id string) (core.SavingsGoal, bool) {
	return lookup(s, func() []core.SavingsGoal { return s.state.SavingsGoals }, id, goalID)
}

func (s *Store) BillReminder(id string) (core.BillReminder, bool) {
	return lookup(s, func() []core.BillReminder { return s.state.BillReminders }, id, billID)
}

// Today is the calendar day derived queries are evaluated against.
func (s *Store) Today() core.Date {
	return core.Today(s.now())
}

// TotalExpensesByCategory sums all expenses per category id.
func (s *Store) TotalExpensesByCategory() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.TotalsByCategory(s.state.Expenses)
}

// TotalExpensesByMonth sums all expenses per "YYYY-MM".
func (s *Store) TotalExpensesByMonth() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.TotalsByMonth(s.state.Expenses)
}

func (s *Store) TotalExpensesForCurrentMonth() decimal.Decimal {
	month := s.Today().MonthKey()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.SumExpensesInMonth(s.state.Expenses, month)
}

func (s *Store) TotalIncomeForCurrentMonth() decimal.Decimal {
	month := s.Today().MonthKey()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.SumIncomeInMonth(s.state.Incomes, month)
}

// RemainingBudget is this month's income minus this month's expenses. It can be negative.
func (s *Store) RemainingBudget() decimal.Decimal {
	return s.MonthOverview().Remaining
}

// MonthOverview bundles the current month's totals.
func (s *Store) MonthOverview() core.MonthOverview {
	month := s.Today().MonthKey()
	s.mu.RLock()
	defer s.mu.RUnlock()
	expenses := analytics.SumExpensesInMonth(s.state.Expenses, month)
	income := analytics.SumIncomeInMonth(s.state.Incomes, month)
	return core.MonthOverview{
		Month:     month,
		Expenses:  expenses,
		Income:    income,
		Remaining: income.Sub(expenses),
	}
}

// BudgetStatus reports usage of the budget over [StartDate, EndDate or today].
// An unknown id yields the zero status.
func (s *Store) BudgetStatus(id string) core.BudgetStatus {
	today := s.Today()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.Budgets, id, budgetID)
	if i < 0 {
		return core.BudgetStatus{Used: decimal.Zero, Remaining: decimal.Zero}
	}
	b := s.state.Budgets[i]
	return statusOf(b, usedInRange(s.state.Expenses, b, today))
}

func statusOf(b core.Budget, used decimal.Decimal) core.BudgetStatus {
	status := core.BudgetStatus{
		Used:      used,
		Remaining: decimal.Max(decimal.Zero, b.Amount.Sub(used)),
	}
	if b.Amount.IsPositive() {
		status.Percentage = used.Div(b.Amount).Mul(hundred).InexactFloat64()
	}
	return status
}

// usedInRange sums expenses in b's category dated within its active range.
// An open-ended budget runs until today.
func usedInRange(expenses []core.Expense, b core.Budget, today core.Date) decimal.Decimal {
	end := b.EndDate
	if end.IsEmpty() {
		end = today
	}
	used := decimal.Zero
	for _, e := range expenses {
		if e.Category == b.Category && e.Date.Between(b.StartDate, end) {
			used = used.Add(e.Amount)
		}
	}
	return used
}

// UpcomingBills returns unpaid reminders due within the next 30 days
// (today included), earliest first.
func (s *Store) UpcomingBills() []core.BillReminder {
	return s.BillsDueWithin(UpcomingWindowDays)
}

// BillsDueWithin returns unpaid reminders due in [today, today+days], earliest first.
func (s *Store) BillsDueWithin(days int) []core.BillReminder {
	today := s.Today()
	until := today.AddDays(days)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []core.BillReminder
	for _, r := range s.state.BillReminders {
		if !r.IsPaid && r.DueDate.Between(today, until) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].DueDate.Before(due[j].DueDate.Time) })
	return due
}

// SavingsTips returns up to three tips in priority order for the current month.
func (s *Store) SavingsTips() []string {
	month := s.Today().MonthKey()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.SavingsTips(s.state.Expenses, s.state.Incomes, month)
}

// PredictExpenseForNextMonth forecasts next month's spending, optionally for one category.
func (s *Store) PredictExpenseForNextMonth(category string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.PredictExpenseForNextMonth(s.state.Expenses, category)
}

// Anomalies returns copies of the expenses flagged as unusually large.
func (s *Store) Anomalies() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flagged := analytics.IdentifyAnomalies(s.state.Expenses)
	for i := range flagged {
		flagged[i] = flagged[i].Clone()
	}
	return flagged
}

// TopCategories ranks categories by total spending, highest first.
func (s *Store) TopCategories() []core.CategoryAmount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.RankCategories(analytics.TotalsByCategory(s.state.Expenses))
}
