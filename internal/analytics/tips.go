package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"rupeetrack/internal/core"
)

// MaxTips is the number of tips returned by SavingsTips and GenerateSavingsTips.
const MaxTips = 3

const (
	lowSavingsRate  = 10
	goodSavingsRate = 20

	tipLowRate = "Your current saving rate is below 10%. Try to increase it to at least 20% for financial security."
)

// categoryTips are suggestions tied to spending in a given category, in
// catalog order.
var categoryTips = []struct {
	category string
	tips     []string
}{
	{"food", []string{
		"Try meal prepping at home to reduce food delivery expenses.",
		"Consider using apps like Zomato Pro or Swiggy Super for discounts on food delivery.",
	}},
	{"transport", []string{
		"Use public transport or carpooling to save on daily commute costs.",
		"Consider monthly metro passes for regular travel.",
	}},
	{"entertainment", []string{
		"Look for free entertainment options like public parks or community events.",
		"Share OTT subscriptions with family members to reduce costs.",
	}},
	{"shopping", []string{
		"Wait for seasonal sales to make big purchases.",
		"Use cashback apps and credit card rewards for shopping.",
	}},
	{"utilities", []string{
		"Switch off appliances when not in use to save on electricity bills.",
		"Consider installing energy-efficient LED bulbs.",
	}},
}

var genericTips = []string{
	"Set up automatic transfers to a savings account on payday.",
	"Try the 50/30/20 rule: 50% for needs, 30% for wants, and 20% for savings.",
	"Consider investing in PPF or FD for tax savings under Section 80C.",
	"Use UPI for payments to track expenses easily and earn cashback rewards.",
}

// SavingsTips returns up to MaxTips tips in priority order: the highest
// spending category across all expenses, the savings rate for month
// ("YYYY-MM"), suggestions for categories the user spends in, then generic
// advice. The result is deterministic for a given input.
func SavingsTips(expenses []core.Expense, incomes []core.Income, month string) []string {
	var tips []string
	if top, ok := TopCategory(expenses); ok {
		tips = append(tips, fmt.Sprintf(
			"Your highest spending category is %s. Consider setting a stricter budget for this category.", top))
	}

	rate := SavingsRate(SumIncomeInMonth(incomes, month), SumExpensesInMonth(expenses, month))
	switch {
	case rate < lowSavingsRate:
		tips = append(tips, tipLowRate)
	case rate >= goodSavingsRate:
		tips = append(tips, fmt.Sprintf(
			"Great job! You're saving %d%% of your income. Consider investing these savings for long-term growth.",
			int(math.Floor(rate+0.5))))
	}

	tips = append(tips, spendingTips(expenses)...)
	tips = append(tips, genericTips...)
	return firstN(dedupe(tips), MaxTips)
}

// GenerateSavingsTips picks tips from the categories present in expenses,
// topping up with generic advice when fewer than MaxTips apply. When rng is
// non-nil the candidates are shuffled before truncation; a nil rng keeps
// catalog order.
func GenerateSavingsTips(expenses []core.Expense, rng *rand.Rand) []string {
	tips := spendingTips(expenses)
	if len(tips) < MaxTips {
		tips = append(tips, genericTips...)
	}
	if rng != nil {
		rng.Shuffle(len(tips), func(i, j int) { tips[i], tips[j] = tips[j], tips[i] })
	}
	return firstN(tips, MaxTips)
}

func spendingTips(expenses []core.Expense) []string {
	present := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		present[e.Category] = true
	}
	var tips []string
	for _, ct := range categoryTips {
		if present[ct.category] {
			tips = append(tips, ct.tips...)
		}
	}
	return tips
}

func dedupe(tips []string) []string {
	seen := make(map[string]bool, len(tips))
	out := tips[:0:0]
	for _, t := range tips {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func firstN(tips []string, n int) []string {
	if len(tips) > n {
		return tips[:n]
	}
	return tips
}
