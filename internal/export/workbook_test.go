package export

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleState() core.State {
	s := core.NewState()
	s.Expenses = []core.Expense{
		{ID: "e1", Amount: amt("799"), Category: "internet", Description: "Paid: Internet",
			Date: core.NewDate(2025, 6, 15), PaymentMethod: "upi", Tags: []string{"bill-payment", "monthly"}},
		{ID: "e2", Amount: amt("120.5"), Category: "unknown-cat", Description: "chai",
			Date: core.NewDate(2025, 6, 2), PaymentMethod: "bogus", IsRecurring: true},
	}
	s.Budgets = []core.Budget{
		{ID: "b1", Category: "food", Amount: amt("5000"), Period: core.Monthly, StartDate: core.NewDate(2025, 6, 1),
			IsAutomaticAdjustment: true, AdjustmentPercentage: 15},
	}
	s.SavingsGoals = []core.SavingsGoal{
		{ID: "g1", Name: "Laptop", TargetAmount: amt("80000"), CurrentAmount: amt("12000.50"),
			Deadline: core.NewDate(2025, 12, 31), Category: "work"},
		{ID: "g2", Name: "Trip", TargetAmount: amt("1000"), CurrentAmount: amt("1255")},
	}
	s.BillReminders = []core.BillReminder{
		{ID: "r1", Name: "Power", Amount: amt("1500"), DueDate: core.NewDate(2025, 7, 5), Category: "utilities",
			IsRecurring: true, RecurringPeriod: core.Monthly},
		{ID: "r2", Name: "Internet", Amount: amt("799"), DueDate: core.NewDate(2025, 6, 15), Category: "internet", IsPaid: true},
	}
	return s
}

func build() Workbook {
	reg := core.DefaultRegistry()
	return NewBuilder(reg, reg).Build(sampleState(), core.NewDate(2025, 6, 15))
}

func TestBuild_SheetOrderAndName(t *testing.T) {
	wb := build()
	if wb.Name != "RupeeTrack_Export_2025-06-15" {
		t.Errorf("Name = %q", wb.Name)
	}
	got := strings.Join(wb.SheetNames(), "|")
	want := "Expenses|Budgets|Savings Goals|Bill Reminders|Summary"
	if got != want {
		t.Errorf("sheets = %s, want %s", got, want)
	}
	for _, sh := range wb.Sheets {
		for i, row := range sh.Rows {
			if len(row) != len(sh.Header) {
				t.Errorf("%s row %d has %d cells, header has %d", sh.Name, i, len(row), len(sh.Header))
			}
		}
	}
}

func TestBuild_Rows(t *testing.T) {
	wb := build()

	tests := []struct {
		sheet string
		row   int
		want  []string
	}{
		{SheetExpenses, 0, []string{"15 June 2025", "Paid: Internet", "Internet & WiFi", "799.00", "UPI", "No", "bill-payment, monthly"}},
		{SheetExpenses, 1, []string{"2 June 2025", "chai", "Other", "120.50", "Cash", "Yes", "N/A"}},
		{SheetBudgets, 0, []string{"Food & Dining", "5000.00", "Monthly", "1 June 2025", "N/A", "Yes", "15"}},
		{SheetSavingsGoals, 0, []string{"Laptop", "80000.00", "12000.50", "15%", "31 December 2025", "work"}},
		{SheetSavingsGoals, 1, []string{"Trip", "1000.00", "1255.00", "126%", "N/A", "N/A"}},
		{SheetBillReminders, 0, []string{"Power", "1500.00", "5 July 2025", "Electricity Bill", "Yes", "Monthly", "No"}},
		{SheetBillReminders, 1, []string{"Internet", "799.00", "15 June 2025", "Internet & WiFi", "No", "N/A", "Yes"}},
		{SheetSummary, 0, []string{"Total Expenses", "919.50"}},
		{SheetSummary, 1, []string{"Total Budget", "5000.00"}},
		{SheetSummary, 2, []string{"Total Savings", "13255.50"}},
		{SheetSummary, 3, []string{"Upcoming Bills", "1500.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			sh, ok := wb.Sheet(tt.sheet)
			if !ok {
				t.Fatalf("sheet %s missing", tt.sheet)
			}
			if tt.row >= len(sh.Rows) {
				t.Fatalf("sheet %s has %d rows", tt.sheet, len(sh.Rows))
			}
			got := strings.Join(sh.Rows[tt.row], "|")
			want := strings.Join(tt.want, "|")
			if got != want {
				t.Errorf("row %d\n got: %s\nwant: %s", tt.row, got, want)
			}
		})
	}
}

func TestBuild_EmptyState(t *testing.T) {
	reg := core.DefaultRegistry()
	wb := NewBuilder(reg, reg).Build(core.NewState(), core.NewDate(2025, 1, 2))
	for _, name := range []string{SheetExpenses, SheetBudgets, SheetSavingsGoals, SheetBillReminders} {
		sh, _ := wb.Sheet(name)
		if len(sh.Rows) != 0 || len(sh.Header) == 0 {
			t.Errorf("%s: %d rows, header %v", name, len(sh.Rows), sh.Header)
		}
	}
	sum, _ := wb.Sheet(SheetSummary)
	for _, row := range sum.Rows {
		if row[1] != "0.00" {
			t.Errorf("summary %s = %s, want 0.00", row[0], row[1])
		}
	}
}

func TestWorkbook_SheetMissing(t *testing.T) {
	if _, ok := (Workbook{}).Sheet(SheetSummary); ok {
		t.Error("empty workbook should not have sheets")
	}
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals(sampleState())
	if !tot.Expenses.Equal(amt("919.5")) || !tot.Budget.Equal(amt("5000")) ||
		!tot.Savings.Equal(amt("13255.5")) || !tot.UpcomingBills.Equal(amt("1500")) {
		t.Errorf("totals = %+v", tot)
	}
}
