package core

import "github.com/shopspring/decimal"

// BudgetStatus is the usage of a budget within its active date range.
type BudgetStatus struct {
	Used       decimal.Decimal `json:"used"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"` // unbounded above 100
}

// CategoryAmount represents an amount aggregated by category id.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthOverview is a compact summary of the current calendar month.
type MonthOverview struct {
	Month     string          `json:"month"` // YYYY-MM
	Expenses  decimal.Decimal `json:"expenses"`
	Income    decimal.Decimal `json:"income"`
	Remaining decimal.Decimal `json:"remaining"` // signed
}
