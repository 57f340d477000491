package store

import (
	"context"
	"slices"

	"rupeetrack/internal/core"
)

// Add operations assign a fresh id, prepend the record (most-recent-first),
// persist and return the id. Input is trusted; validation belongs to the
// caller. Update and Delete report whether the id existed; an unknown id is a
// no-op.

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return idOf(item) == id })
}

func expenseID(e core.Expense) string { return e.ID }
func incomeID(i core.Income) string { return i.ID }
func budgetID(b core.Budget) string { return b.ID }
func goalID(g core.SavingsGoal) string { return g.ID }
func billID(r core.BillReminder) string { return r.ID }

// AddExpense records an expense and then runs budget auto-adjustment for every
// auto-adjusting budget in the expense's category.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) string {
	var id string
	s.mutate(ctx, func(tx *txn) bool {
		id = tx.addExpense(e)
		return true
	})
	return id
}

// addExpense must run under the write lock.
func (tx *txn) addExpense(e core.Expense) string {
	s := tx.store
	e = e.Clone()
	e.ID = s.newID()
	s.state.Expenses = slices.Insert(s.state.Expenses, 0, e)
	tx.emit(Event{Type: ExpenseCreated, EntityID: e.ID, Amount: e.Amount, Category: e.Category})
	tx.adjustBudgets(e.Category)
	return e.ID
}

func (s *Store) UpdateExpense(ctx context.Context, id string, p core.ExpensePatch) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Expenses, id, expenseID)
		if i < 0 {
			return false
		}
		e := p.Apply(s.state.Expenses[i])
		s.state.Expenses[i] = e
		tx.emit(Event{Type: ExpenseUpdated, EntityID: id, Amount: e.Amount, Category: e.Category})
		found = true
		return true
	})
	return found
}

func (s *Store) DeleteExpense(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Expenses, id, expenseID)
		if i < 0 {
			return false
		}
		e := s.state.Expenses[i]
		s.state.Expenses = slices.Delete(s.state.Expenses, i, i+1)
		tx.emit(Event{Type: ExpenseDeleted, EntityID: id, Amount: e.Amount, Category: e.Category})
		found = true
		return true
	})
	return found
}

func (s *Store) AddIncome(ctx context.Context, in core.Income) string {
	var id string
	s.mutate(ctx, func(tx *txn) bool {
		in.ID = s.newID()
		id = in.ID
		s.state.Incomes = slices.Insert(s.state.Incomes, 0, in)
		tx.emit(Event{Type: IncomeCreated, EntityID: id, Amount: in.Amount, Name: in.Source})
		return true
	})
	return id
}

func (s *Store) UpdateIncome(ctx context.Context, id string, p core.IncomePatch) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Incomes, id, incomeID)
		if i < 0 {
			return false
		}
		in := p.Apply(s.state.Incomes[i])
		s.state.Incomes[i] = in
		tx.emit(Event{Type: IncomeUpdated, EntityID: id, Amount: in.Amount, Name: in.Source})
		found = true
		return true
	})
	return found
}

func (s *Store) DeleteIncome(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Incomes, id, incomeID)
		if i < 0 {
			return false
		}
		s.state.Incomes = slices.Delete(s.state.Incomes, i, i+1)
		tx.emit(Event{Type: IncomeDeleted, EntityID: id})
		found = true
		return true
	})
	return found
}

// AddBudget stores b, defaulting AdjustmentPercentage when unset.
func (s *Store) AddBudget(ctx context.Context, b core.Budget) string {
	var id string
	s.mutate(ctx, func(tx *txn) bool {
		if b.AdjustmentPercentage == 0 {
			b.AdjustmentPercentage = core.DefaultAdjustmentPercentage
		}
		b.ID = s.newID()
		id = b.ID
		s.state.Budgets = slices.Insert(s.state.Budgets, 0, b)
		tx.emit(Event{Type: BudgetCreated, EntityID: id, Amount: b.Amount, Category: b.Category})
		return true
	})
	return id
}

func (s *Store) UpdateBudget(ctx context.Context, id string, p core.BudgetPatch) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Budgets, id, budgetID)
		if i < 0 {
			return false
		}
		b := p.Apply(s.state.Budgets[i])
		s.state.Budgets[i] = b
		tx.emit(Event{Type: BudgetUpdated, EntityID: id, Amount: b.Amount, Category: b.Category})
		found = true
		return true
	})
	return found
}

// DeleteBudget removes the budget only; expenses in its category are untouched.
func (s *Store) DeleteBudget(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.Budgets, id, budgetID)
		if i < 0 {
			return false
		}
		b := s.state.Budgets[i]
		s.state.Budgets = slices.Delete(s.state.Budgets, i, i+1)
		tx.emit(Event{Type: BudgetDeleted, EntityID: id, Category: b.Category})
		found = true
		return true
	})
	return found
}

func (s *Store) AddSavingsGoal(ctx context.Context, g core.SavingsGoal) string {
	var id string
	s.mutate(ctx, func(tx *txn) bool {
		g.ID = s.newID()
		id = g.ID
		s.state.SavingsGoals = slices.Insert(s.state.SavingsGoals, 0, g)
		tx.emit(Event{Type: GoalCreated, EntityID: id, Name: g.Name, Amount: g.TargetAmount})
		return true
	})
	return id
}

func (s *Store) UpdateSavingsGoal(ctx context.Context, id string, p core.SavingsGoalPatch) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.SavingsGoals, id, goalID)
		if i < 0 {
			return false
		}
		g := p.Apply(s.state.SavingsGoals[i])
		s.state.SavingsGoals[i] = g
		tx.emit(Event{Type: GoalUpdated, EntityID: id, Name: g.Name, Amount: g.CurrentAmount})
		found = true
		return true
	})
	return found
}

func (s *Store) DeleteSavingsGoal(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.SavingsGoals, id, goalID)
		if i < 0 {
			return false
		}
		s.state.SavingsGoals = slices.Delete(s.state.SavingsGoals, i, i+1)
		tx.emit(Event{Type: GoalDeleted, EntityID: id})
		found = true
		return true
	})
	return found
}

func (s *Store) AddBillReminder(ctx context.Context, r core.BillReminder) string {
	var id string
	s.mutate(ctx, func(tx *txn) bool {
		r.ID = s.newID()
		id = r.ID
		s.state.BillReminders = slices.Insert(s.state.BillReminders, 0, r)
		tx.emit(Event{Type: BillCreated, EntityID: id, Name: r.Name, Amount: r.Amount, Category: r.Category})
		return true
	})
	return id
}

func (s *Store) UpdateBillReminder(ctx context.Context, id string, p core.BillReminderPatch) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.BillReminders, id, billID)
		if i < 0 {
			return false
		}
		r := p.Apply(s.state.BillReminders[i])
		s.state.BillReminders[i] = r
		tx.emit(Event{Type: BillUpdated, EntityID: id, Name: r.Name, Amount: r.Amount, Category: r.Category})
		found = true
		return true
	})
	return found
}

func (s *Store) DeleteBillReminder(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.BillReminders, id, billID)
		if i < 0 {
			return false
		}
		s.state.BillReminders = slices.Delete(s.state.BillReminders, i, i+1)
		tx.emit(Event{Type: BillDeleted, EntityID: id})
		found = true
		return true
	})
	return found
}

// MarkBillAsPaid records the bill's payment expense dated today (running budget
// auto-adjustment like any added expense) and flags the reminder as paid, as a
// single persisted mutation. It returns the new expense id. Paying an already
// paid reminder records a second expense; callers that must avoid that check
// IsPaid first.
func (s *Store) MarkBillAsPaid(ctx context.Context, id string) (string, bool) {
	var paymentID string
	s.mutate(ctx, func(tx *txn) bool {
		i := indexOf(s.state.BillReminders, id, billID)
		if i < 0 {
			return false
		}
		r := s.state.BillReminders[i]
		paymentID = tx.addExpense(r.PaymentExpense(tx.today))
		// addExpense only touched expenses and budgets, so i is still valid.
		s.state.BillReminders[i].IsPaid = true
		tx.emit(Event{Type: BillPaid, EntityID: id, Name: r.Name, Amount: r.Amount, Category: r.Category})
		return true
	})
	return paymentID, paymentID != ""
}

// ToggleNotifications flips the notifications setting and returns the new value.
func (s *Store) ToggleNotifications(ctx context.Context) bool {
	var on bool
	s.mutate(ctx, func(tx *txn) bool {
		s.state.Settings.Notifications = !s.state.Settings.Notifications
		on = s.state.Settings.Notifications
		tx.emit(Event{Type: SettingsUpdated, Name: "notifications"})
		return true
	})
	return on
}

func (s *Store) SetLanguage(ctx context.Context, lang core.Language) {
	s.mutate(ctx, func(tx *txn) bool {
		s.state.Settings.Language = lang
		tx.emit(Event{Type: SettingsUpdated, Name: "language"})
		return true
	})
}

func (s *Store) SetCurrency(ctx context.Context, c core.Currency) {
	s.mutate(ctx, func(tx *txn) bool {
		s.state.Settings.Currency = c
		tx.emit(Event{Type: SettingsUpdated, Name: "currency"})
		return true
	})
}

func (s *Store) UpdateUserProfile(ctx context.Context, p core.UserProfilePatch) {
	s.mutate(ctx, func(tx *txn) bool {
		s.state.Profile = p.Apply(s.state.Profile)
		tx.emit(Event{Type: ProfileUpdated, Name: s.state.Profile.Name})
		return true
	})
}
