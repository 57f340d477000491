package store

import (
	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

var (
	hundred        = decimal.NewFromInt(100)
	growAbove      = decimal.NewFromInt(90)
	shrinkBelow    = decimal.NewFromInt(50)
	adjustDeadband = decimal.RequireFromString("0.05")
)

// ProposeAdjustment applies the auto-adjustment rule to b given the amount
// used in its active range. Above 90% usage the budget grows to
// ceil(used × (1 + p/100)); below 50% with some usage it shrinks to
// ceil(used × (1 + p/200)). The proposal is returned only when it moves the
// budget by more than 5% of its current amount.
func ProposeAdjustment(b core.Budget, used decimal.Decimal) (decimal.Decimal, bool) {
	if !b.Amount.IsPositive() {
		return b.Amount, false
	}
	pct := b.AdjustmentPercentage
	if pct == 0 {
		pct = core.DefaultAdjustmentPercentage
	}

	percentage := used.Div(b.Amount).Mul(hundred)
	var proposed decimal.Decimal
	switch {
	case percentage.GreaterThan(growAbove):
		factor := decimal.NewFromInt(int64(100 + pct)).Div(hundred)
		proposed = used.Mul(factor).Ceil()
	case percentage.LessThan(shrinkBelow) && used.IsPositive():
		factor := decimal.NewFromInt(int64(200 + pct)).Div(decimal.NewFromInt(200))
		proposed = used.Mul(factor).Ceil()
	default:
		return b.Amount, false
	}

	delta := proposed.Sub(b.Amount).Abs().Div(b.Amount)
	if !delta.GreaterThan(adjustDeadband) {
		return b.Amount, false
	}
	return proposed, true
}

// adjustBudgets re-evaluates every auto-adjusting budget in category. Each
// matching budget is adjusted independently.
func (tx *txn) adjustBudgets(category string) {
	s := tx.store
	for i := range s.state.Budgets {
		b := &s.state.Budgets[i]
		if b.Category != category || !b.IsAutomaticAdjustment {
			continue
		}
		used := usedInRange(s.state.Expenses, *b, tx.today)
		proposed, ok := ProposeAdjustment(*b, used)
		if !ok {
			continue
		}
		previous := b.Amount
		b.Amount = proposed
		tx.emit(Event{
			Type:     BudgetAdjusted,
			EntityID: b.ID,
			Category: b.Category,
			Amount:   proposed,
			Previous: previous,
		})
	}
}
