package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
	"rupeetrack/internal/store"
)

// resource wires one entity collection of the store to list, get, create,
// patch and delete routes under /api/<path>.
type resource[T, P any] struct {
	path     string
	entity   string
	snapshot func() core.State
	list     func(core.State) []T
	get      func(id string) (T, bool)
	add      func(ctx context.Context, v T) string
	update   func(ctx context.Context, id string, p P) bool
	remove   func(ctx context.Context, id string) bool
	apply    func(p P, v T) T
	validate func(v T) error
	clean    func(v T) T
	cleanP   func(p P) P
}

func mount[T, P any](r *mux.Router, res resource[T, P]) {
	collection := "/" + res.path
	item := collection + "/{id}"

	r.HandleFunc(collection, res.handleList).Methods(http.MethodGet)
	r.HandleFunc(collection, res.handleCreate).Methods(http.MethodPost)
	r.HandleFunc(item, res.handleGet).Methods(http.MethodGet)
	r.HandleFunc(item, res.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc(item, res.handleDelete).Methods(http.MethodDelete)
}

func (res resource[T, P]) handleList(w http.ResponseWriter, r *http.Request) {
	items := res.list(res.snapshot())
	if items == nil {
		items = []T{}
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (res resource[T, P]) handleGet(w http.ResponseWriter, r *http.Request) {
	v, ok := res.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, res.entity+" not found")
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (res resource[T, P]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var v T
	if err := decodeJSON(w, r, &v); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	v = res.clean(v)
	if err := res.validate(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid "+res.entity+": "+err.Error())
		return
	}

	id := res.add(r.Context(), v)
	created, _ := res.get(id)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Entity created",
		log.FieldOperation, log.OpCreate,
		log.FieldEntity, res.entity,
		log.FieldEntityID, id)
	writeJSON(w, r, http.StatusCreated, created)
}

// handleUpdate validates the patched entity before storing the patch so an
// update can never leave an invalid record behind.
func (res resource[T, P]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var p P
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p = res.cleanP(p)

	current, ok := res.get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, res.entity+" not found")
		return
	}
	if err := res.validate(res.apply(p, current)); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid "+res.entity+": "+err.Error())
		return
	}
	if !res.update(r.Context(), id, p) {
		writeError(w, r, http.StatusNotFound, res.entity+" not found")
		return
	}

	updated, _ := res.get(id)
	writeJSON(w, r, http.StatusOK, updated)
}

func (res resource[T, P]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !res.remove(r.Context(), id) {
		writeError(w, r, http.StatusNotFound, res.entity+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func expenseResource(st *store.Store) resource[core.Expense, core.ExpensePatch] {
	return resource[core.Expense, core.ExpensePatch]{
		path:     "expenses",
		entity:   "expense",
		snapshot: st.Snapshot,
		list:     func(s core.State) []core.Expense { return s.Expenses },
		get:      st.Expense,
		add:      st.AddExpense,
		update:   st.UpdateExpense,
		remove:   st.DeleteExpense,
		apply:    core.ExpensePatch.Apply,
		validate: core.Expense.Validate,
		clean: func(e core.Expense) core.Expense {
			e.Category = sanitizeInput(e.Category)
			e.Description = sanitizeInput(e.Description)
			e.PaymentMethod = sanitizeInput(e.PaymentMethod)
			e.Tags = sanitizeAll(e.Tags)
			return e
		},
		cleanP: func(p core.ExpensePatch) core.ExpensePatch {
			p.Category = sanitizePtr(p.Category)
			p.Description = sanitizePtr(p.Description)
			p.PaymentMethod = sanitizePtr(p.PaymentMethod)
			p.Tags = sanitizeAll(p.Tags)
			return p
		},
	}
}

func incomeResource(st *store.Store) resource[core.Income, core.IncomePatch] {
	return resource[core.Income, core.IncomePatch]{
		path:     "incomes",
		entity:   "income",
		snapshot: st.Snapshot,
		list:     func(s core.State) []core.Income { return s.Incomes },
		get:      st.Income,
		add:      st.AddIncome,
		update:   st.UpdateIncome,
		remove:   st.DeleteIncome,
		apply:    core.IncomePatch.Apply,
		validate: core.Income.Validate,
		clean: func(i core.Income) core.Income {
			i.Source = sanitizeInput(i.Source)
			i.Description = sanitizeInput(i.Description)
			return i
		},
		cleanP: func(p core.IncomePatch) core.IncomePatch {
			p.Source = sanitizePtr(p.Source)
			p.Description = sanitizePtr(p.Description)
			return p
		},
	}
}

func budgetResource(st *store.Store) resource[core.Budget, core.BudgetPatch] {
	return resource[core.Budget, core.BudgetPatch]{
		path:     "budgets",
		entity:   "budget",
		snapshot: st.Snapshot,
		list:     func(s core.State) []core.Budget { return s.Budgets },
		get:      st.Budget,
		add:      st.AddBudget,
		update:   st.UpdateBudget,
		remove:   st.DeleteBudget,
		apply:    core.BudgetPatch.Apply,
		validate: core.Budget.Validate,
		clean: func(b core.Budget) core.Budget {
			b.Category = sanitizeInput(b.Category)
			return b
		},
		cleanP: func(p core.BudgetPatch) core.BudgetPatch {
			p.Category = sanitizePtr(p.Category)
			return p
		},
	}
}

func goalResource(st *store.Store) resource[core.SavingsGoal, core.SavingsGoalPatch] {
	return resource[core.SavingsGoal, core.SavingsGoalPatch]{
		path:     "goals",
		entity:   "savings goal",
		snapshot: st.Snapshot,
		list:     func(s core.State) []core.SavingsGoal { return s.SavingsGoals },
		get:      st.SavingsGoal,
		add:      st.AddSavingsGoal,
		update:   st.UpdateSavingsGoal,
		remove:   st.DeleteSavingsGoal,
		apply:    core.SavingsGoalPatch.Apply,
		validate: core.SavingsGoal.Validate,
		clean: func(g core.SavingsGoal) core.SavingsGoal {
			g.Name = sanitizeInput(g.Name)
			g.Category = sanitizeInput(g.Category)
			return g
		},
		cleanP: func(p core.SavingsGoalPatch) core.SavingsGoalPatch {
			p.Name = sanitizePtr(p.Name)
			p.Category = sanitizePtr(p.Category)
			return p
		},
	}
}

func billResource(st *store.Store) resource[core.BillReminder, core.BillReminderPatch] {
	return resource[core.BillReminder, core.BillReminderPatch]{
		path:     "bills",
		entity:   "bill reminder",
		snapshot: st.Snapshot,
		list:     func(s core.State) []core.BillReminder { return s.BillReminders },
		get:      st.BillReminder,
		add:      st.AddBillReminder,
		update:   st.UpdateBillReminder,
		remove:   st.DeleteBillReminder,
		apply:    core.BillReminderPatch.Apply,
		validate: core.BillReminder.Validate,
		clean: func(b core.BillReminder) core.BillReminder {
			b.Name = sanitizeInput(b.Name)
			b.Category = sanitizeInput(b.Category)
			return b
		},
		cleanP: func(p core.BillReminderPatch) core.BillReminderPatch {
			p.Name = sanitizePtr(p.Name)
			p.Category = sanitizePtr(p.Category)
			return p
		},
	}
}
