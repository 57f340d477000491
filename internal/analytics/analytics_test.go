package analytics

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

func expense(category, amount string, y, m, d int) core.Expense {
	return core.Expense{
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     core.NewDate(y, m, d),
	}
}

func income(amount string, y, m, d int) core.Income {
	return core.Income{
		Source: "salary",
		Amount: decimal.RequireFromString(amount),
		Date:   core.NewDate(y, m, d),
	}
}

func TestTotalsByCategoryMatchesPartition(t *testing.T) {
	expenses := []core.Expense{
		expense("food", "120.50", 2025, 1, 3),
		expense("transport", "40", 2025, 1, 4),
		expense("food", "79.50", 2025, 2, 1),
		expense("food", "0.10", 2025, 2, 2),
		expense("transport", "0.20", 2025, 2, 2),
	}
	totals := TotalsByCategory(expenses)

	want := map[string]string{"food": "200.10", "transport": "40.20"}
	if len(totals) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(totals))
	}
	for cat, w := range want {
		if !totals[cat].Equal(decimal.RequireFromString(w)) {
			t.Fatalf("%s: expected %s, got %s", cat, w, totals[cat])
		}
	}

	var all decimal.Decimal
	for _, v := range totals {
		all = all.Add(v)
	}
	if !all.Equal(decimal.RequireFromString("240.30")) {
		t.Fatalf("partition total mismatch: %s", all)
	}
}

func TestTotalsByMonthAndSeries(t *testing.T) {
	expenses := []core.Expense{
		expense("food", "10", 2025, 3, 31),
		expense("food", "5", 2024, 12, 1),
		expense("rent", "20", 2025, 3, 1),
	}
	series := MonthlySeries(expenses)
	if len(series) != 2 {
		t.Fatalf("expected 2 months, got %d", len(series))
	}
	if series[0].Month != "2024-12" || series[1].Month != "2025-03" {
		t.Fatalf("series not sorted: %+v", series)
	}
	if !series[1].Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("march total = %s", series[1].Total)
	}
	if got := SumExpensesInMonth(expenses, "2025-03"); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("SumExpensesInMonth = %s", got)
	}
}

func TestRankCategoriesTieBreak(t *testing.T) {
	ranked := RankCategories(map[string]decimal.Decimal{
		"b": decimal.NewFromInt(10),
		"a": decimal.NewFromInt(10),
		"c": decimal.NewFromInt(50),
	})
	got := []string{ranked[0].Category, ranked[1].Category, ranked[2].Category}
	if strings.Join(got, ",") != "c,a,b" {
		t.Fatalf("unexpected ranking %v", got)
	}
}

func TestSavingsRate(t *testing.T) {
	if r := SavingsRate(decimal.Zero, decimal.NewFromInt(100)); r != 0 {
		t.Fatalf("zero income should give 0, got %v", r)
	}
	if r := SavingsRate(decimal.NewFromInt(1000), decimal.NewFromInt(750)); r != 25 {
		t.Fatalf("expected 25, got %v", r)
	}
	if r := SavingsRate(decimal.NewFromInt(1000), decimal.NewFromInt(1500)); r != -50 {
		t.Fatalf("expected -50, got %v", r)
	}
}

func TestPredictExpenseForNextMonth(t *testing.T) {
	tests := []struct {
		name     string
		expenses []core.Expense
		category string
		want     string
	}{
		{"no data", nil, "", "0"},
		{"single month carries forward", []core.Expense{
			expense("food", "120.75", 2025, 1, 5),
		}, "", "120.75"},
		{"linear growth", []core.Expense{
			expense("food", "100", 2025, 1, 5),
			expense("food", "150", 2025, 2, 5),
			expense("rent", "50", 2025, 2, 6),
			expense("food", "300", 2025, 3, 5),
		}, "", "400"},
		{"falling trend clamps at zero", []core.Expense{
			expense("food", "1000", 2025, 1, 5),
			expense("food", "100", 2025, 2, 5),
		}, "", "0"},
		{"category filter", []core.Expense{
			expense("food", "100", 2025, 1, 5),
			expense("rent", "9000", 2025, 1, 6),
			expense("food", "200", 2025, 2, 5),
		}, "food", "300"},
		{"rounds to whole unit", []core.Expense{
			expense("food", "100", 2025, 1, 5),
			expense("food", "101", 2025, 2, 5),
			expense("food", "103", 2025, 3, 5),
		}, "", "104"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictExpenseForNextMonth(tt.expenses, tt.category)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestIdentifyAnomalies(t *testing.T) {
	t.Run("boundary value is not anomalous", func(t *testing.T) {
		expenses := []core.Expense{
			expense("food", "100", 2025, 1, 1),
			expense("food", "100", 2025, 1, 2),
			expense("food", "100", 2025, 1, 3),
			expense("food", "100", 2025, 1, 4),
			expense("food", "500", 2025, 1, 5),
		}
		if got := IdentifyAnomalies(expenses); len(got) != 0 {
			t.Fatalf("500 sits exactly on mean+2σ and must be excluded, got %v", got)
		}
	})

	t.Run("outlier above threshold", func(t *testing.T) {
		var expenses []core.Expense
		for i := 1; i <= 9; i++ {
			expenses = append(expenses, expense("food", "100", 2025, 1, i))
		}
		outlier := expense("food", "1000", 2025, 1, 10)
		outlier.ID = "big"
		expenses = append(expenses, outlier)

		got := IdentifyAnomalies(expenses)
		if len(got) != 1 || got[0].ID != "big" {
			t.Fatalf("expected only the outlier, got %v", got)
		}
	})

	t.Run("small categories skipped", func(t *testing.T) {
		expenses := []core.Expense{
			expense("travel", "10", 2025, 1, 1),
			expense("travel", "10000", 2025, 1, 2),
		}
		if got := IdentifyAnomalies(expenses); len(got) != 0 {
			t.Fatalf("categories under three samples must be ignored, got %v", got)
		}
	})
}

func TestSavingsTips(t *testing.T) {
	const month = "2025-04"

	t.Run("no data gives low rate and generic advice", func(t *testing.T) {
		tips := SavingsTips(nil, nil, month)
		if len(tips) != MaxTips {
			t.Fatalf("expected %d tips, got %v", MaxTips, tips)
		}
		if tips[0] != tipLowRate {
			t.Fatalf("expected low-rate tip first, got %q", tips[0])
		}
		if tips[1] != genericTips[0] {
			t.Fatalf("expected generic tip next, got %q", tips[1])
		}
	})

	t.Run("top category then congratulation", func(t *testing.T) {
		expenses := []core.Expense{
			expense("food", "200", 2025, 4, 2),
			expense("transport", "100", 2025, 4, 3),
		}
		incomes := []core.Income{income("1000", 2025, 4, 1)}

		tips := SavingsTips(expenses, incomes, month)
		if !strings.Contains(tips[0], "highest spending category is food") {
			t.Fatalf("unexpected first tip %q", tips[0])
		}
		if !strings.Contains(tips[1], "saving 70%") {
			t.Fatalf("unexpected rate tip %q", tips[1])
		}
		if tips[2] != categoryTips[0].tips[0] {
			t.Fatalf("expected food tip third, got %q", tips[2])
		}
	})

	t.Run("middle rate adds no rate tip", func(t *testing.T) {
		expenses := []core.Expense{expense("rent", "850", 2025, 4, 2)}
		incomes := []core.Income{income("1000", 2025, 4, 1)}
		tips := SavingsTips(expenses, incomes, month)
		for _, tip := range tips {
			if tip == tipLowRate || strings.HasPrefix(tip, "Great job") {
				t.Fatalf("15%% rate should not produce a rate tip: %v", tips)
			}
		}
	})
}

func TestGenerateSavingsTips(t *testing.T) {
	expenses := []core.Expense{
		expense("food", "10", 2025, 1, 1),
		expense("utilities", "10", 2025, 1, 2),
	}

	ordered := GenerateSavingsTips(expenses, nil)
	want := []string{categoryTips[0].tips[0], categoryTips[0].tips[1], categoryTips[4].tips[0]}
	if strings.Join(ordered, "|") != strings.Join(want, "|") {
		t.Fatalf("nil rng should keep catalog order, got %v", ordered)
	}

	candidates := map[string]bool{}
	for _, ct := range categoryTips {
		if ct.category == "food" || ct.category == "utilities" {
			for _, tip := range ct.tips {
				candidates[tip] = true
			}
		}
	}
	shuffled := GenerateSavingsTips(expenses, rand.New(rand.NewPCG(1, 2)))
	if len(shuffled) != MaxTips {
		t.Fatalf("expected %d tips, got %v", MaxTips, shuffled)
	}
	for _, tip := range shuffled {
		if !candidates[tip] {
			t.Fatalf("unexpected tip %q", tip)
		}
	}

	sparse := GenerateSavingsTips(nil, nil)
	if strings.Join(sparse, "|") != strings.Join(genericTips[:3], "|") {
		t.Fatalf("expected generic top-up, got %v", sparse)
	}
}
