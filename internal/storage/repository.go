package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
	"rupeetrack/internal/log"
	"rupeetrack/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the state record across one table per collection
// plus a single settings row. Save rewrites every table in one transaction.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ store.Persister = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writes serialized and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite database ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the full state. It returns store.ErrNoState until the first Save.
func (r *SQLiteRepository) Load(ctx context.Context) (core.State, error) {
	state := core.NewState()

	row := r.db.QueryRowContext(ctx, `SELECT language, currency, notifications,
		profile_name, profile_email, profile_avatar FROM app_settings WHERE id = 1`)
	var lang, currency string
	err := row.Scan(&lang, &currency, &state.Settings.Notifications,
		&state.Profile.Name, &state.Profile.Email, &state.Profile.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return core.State{}, store.ErrNoState
	}
	if err != nil {
		return core.State{}, fmt.Errorf("load settings: %w", err)
	}
	state.Settings.Language = core.Language(lang)
	state.Settings.Currency = core.Currency(currency)

	if state.Expenses, err = r.loadExpenses(ctx); err != nil {
		return core.State{}, err
	}
	if state.Incomes, err = r.loadIncomes(ctx); err != nil {
		return core.State{}, err
	}
	if state.Budgets, err = r.loadBudgets(ctx); err != nil {
		return core.State{}, err
	}
	if state.SavingsGoals, err = r.loadGoals(ctx); err != nil {
		return core.State{}, err
	}
	if state.BillReminders, err = r.loadBills(ctx); err != nil {
		return core.State{}, err
	}
	return state, nil
}

// Save replaces the stored state with s.
func (r *SQLiteRepository) Save(ctx context.Context, s core.State) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"expenses", "incomes", "budgets", "savings_goals", "bill_reminders"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, e := range s.Expenses {
		tags, mErr := json.Marshal(nonNil(e.Tags))
		if mErr != nil {
			return fmt.Errorf("encode tags of %s: %w", e.ID, mErr)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO expenses
			(id, position, amount, category, description, date, payment_method, is_recurring, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Amount.String(), e.Category, e.Description, e.Date.String(),
			e.PaymentMethod, e.IsRecurring, string(tags))
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	for i, in := range s.Incomes {
		_, err = tx.ExecContext(ctx, `INSERT INTO incomes
			(id, position, amount, source, description, date, is_recurring, recurring_period)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, i, in.Amount.String(), in.Source, in.Description, in.Date.String(),
			in.IsRecurring, string(in.RecurringPeriod))
		if err != nil {
			return fmt.Errorf("insert income %s: %w", in.ID, err)
		}
	}

	for i, b := range s.Budgets {
		_, err = tx.ExecContext(ctx, `INSERT INTO budgets
			(id, position, category, amount, period, start_date, end_date, is_automatic_adjustment, adjustment_percentage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, i, b.Category, b.Amount.String(), string(b.Period), b.StartDate.String(),
			nullableDate(b.EndDate), b.IsAutomaticAdjustment, b.AdjustmentPercentage)
		if err != nil {
			return fmt.Errorf("insert budget %s: %w", b.ID, err)
		}
	}

	for i, g := range s.SavingsGoals {
		_, err = tx.ExecContext(ctx, `INSERT INTO savings_goals
			(id, position, name, target_amount, current_amount, deadline, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
			nullableDate(g.Deadline), g.Category)
		if err != nil {
			return fmt.Errorf("insert savings goal %s: %w", g.ID, err)
		}
	}

	for i, b := range s.BillReminders {
		_, err = tx.ExecContext(ctx, `INSERT INTO bill_reminders
			(id, position, name, amount, due_date, category, is_recurring, recurring_period, is_paid)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, i, b.Name, b.Amount.String(), b.DueDate.String(), b.Category,
			b.IsRecurring, string(b.RecurringPeriod), b.IsPaid)
		if err != nil {
			return fmt.Errorf("insert bill reminder %s: %w", b.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO app_settings
		(id, language, currency, notifications, profile_name, profile_email, profile_avatar, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			currency = excluded.currency,
			notifications = excluded.notifications,
			profile_name = excluded.profile_name,
			profile_email = excluded.profile_email,
			profile_avatar = excluded.profile_avatar,
			updated_at = CURRENT_TIMESTAMP`,
		string(s.Settings.Language), string(s.Settings.Currency), s.Settings.Notifications,
		s.Profile.Name, s.Profile.Email, s.Profile.Avatar)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.DebugContext(ctx, "State saved",
		log.FieldOperation, log.OpPersist,
		"expenses", len(s.Expenses),
		"bills", len(s.BillReminders))
	return nil
}

func (r *SQLiteRepository) loadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, category, description, date,
		payment_method, is_recurring, tags FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		var amount, date, tags string
		if err := rows.Scan(&e.ID, &amount, &e.Category, &e.Description, &date,
			&e.PaymentMethod, &e.IsRecurring, &tags); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %s amount: %w", e.ID, err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("expense %s date: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("expense %s tags: %w", e.ID, err)
		}
		if len(e.Tags) == 0 {
			e.Tags = nil
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadIncomes(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, source, description, date,
		is_recurring, recurring_period FROM incomes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	out := []core.Income{}
	for rows.Next() {
		var in core.Income
		var amount, date, period string
		if err := rows.Scan(&in.ID, &amount, &in.Source, &in.Description, &date,
			&in.IsRecurring, &period); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("income %s amount: %w", in.ID, err)
		}
		if in.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("income %s date: %w", in.ID, err)
		}
		in.RecurringPeriod = core.Period(period)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category, amount, period, start_date, end_date,
		is_automatic_adjustment, adjustment_percentage FROM budgets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		var amount, period, start string
		var end sql.NullString
		if err := rows.Scan(&b.ID, &b.Category, &amount, &period, &start, &end,
			&b.IsAutomaticAdjustment, &b.AdjustmentPercentage); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("budget %s amount: %w", b.ID, err)
		}
		b.Period = core.Period(period)
		if b.StartDate, err = core.ParseDate(start); err != nil {
			return nil, fmt.Errorf("budget %s start date: %w", b.ID, err)
		}
		if b.EndDate, err = scanDate(end); err != nil {
			return nil, fmt.Errorf("budget %s end date: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, target_amount, current_amount, deadline,
		category FROM savings_goals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query savings goals: %w", err)
	}
	defer rows.Close()

	out := []core.SavingsGoal{}
	for rows.Next() {
		var g core.SavingsGoal
		var target, current string
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &deadline, &g.Category); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("goal %s target: %w", g.ID, err)
		}
		if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("goal %s current amount: %w", g.ID, err)
		}
		if g.Deadline, err = scanDate(deadline); err != nil {
			return nil, fmt.Errorf("goal %s deadline: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadBills(ctx context.Context) ([]core.BillReminder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, amount, due_date, category,
		is_recurring, recurring_period, is_paid FROM bill_reminders ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query bill reminders: %w", err)
	}
	defer rows.Close()

	out := []core.BillReminder{}
	for rows.Next() {
		var b core.BillReminder
		var amount, due, period string
		if err := rows.Scan(&b.ID, &b.Name, &amount, &due, &b.Category,
			&b.IsRecurring, &period, &b.IsPaid); err != nil {
			return nil, fmt.Errorf("scan bill reminder: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bill %s amount: %w", b.ID, err)
		}
		if b.DueDate, err = core.ParseDate(due); err != nil {
			return nil, fmt.Errorf("bill %s due date: %w", b.ID, err)
		}
		b.RecurringPeriod = core.Period(period)
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullableDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func scanDate(s sql.NullString) (core.Date, error) {
	if !s.Valid || s.String == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s.String)
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
