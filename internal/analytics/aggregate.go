// Package analytics holds pure functions over expense and income snapshots:
// aggregation, next-month forecasting, anomaly detection and savings tips.
// Nothing in this package mutates its input or keeps state between calls.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

// MonthTotal is the expense total of one "YYYY-MM" bucket.
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// TotalsByCategory sums expense amounts per category id.
func TotalsByCategory(expenses []core.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// TotalsByMonth sums expense amounts per "YYYY-MM" month key.
func TotalsByMonth(expenses []core.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.Date.MonthKey()
		totals[key] = totals[key].Add(e.Amount)
	}
	return totals
}

// MonthlySeries returns the monthly totals sorted by month ascending.
func MonthlySeries(expenses []core.Expense) []MonthTotal {
	totals := TotalsByMonth(expenses)
	series := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		series = append(series, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}

// SumExpensesInMonth totals the expenses dated in month ("YYYY-MM").
func SumExpensesInMonth(expenses []core.Expense, month string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		if e.Date.MonthKey() == month {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// SumIncomeInMonth totals the incomes dated in month ("YYYY-MM").
func SumIncomeInMonth(incomes []core.Income, month string) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range incomes {
		if i.Date.MonthKey() == month {
			sum = sum.Add(i.Amount)
		}
	}
	return sum
}

// RankCategories orders category totals by amount descending. Ties are broken
// by category id so the ranking is stable across calls.
func RankCategories(totals map[string]decimal.Decimal) []core.CategoryAmount {
	ranked := make([]core.CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		ranked = append(ranked, core.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Amount.Cmp(ranked[j].Amount); c != 0 {
			return c > 0
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// TopCategory returns the category with the highest expense total.
func TopCategory(expenses []core.Expense) (string, bool) {
	ranked := RankCategories(TotalsByCategory(expenses))
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Category, true
}

// SavingsRate is (income - expenses) / income * 100, or 0 when income is zero.
func SavingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
