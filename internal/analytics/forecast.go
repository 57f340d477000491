package analytics

import (
	"github.com/shopspring/decimal"

	"rupeetrack/internal/core"
)

// PredictExpenseForNextMonth forecasts next month's spending with an ordinary
// least-squares line over the monthly totals (x = 1..n). An empty category
// uses every expense.
//
// With no data the forecast is zero; with a single month it is that month's
// total. Otherwise the fitted value at n+1 is rounded to a whole unit and
// clamped at zero.
func PredictExpenseForNextMonth(expenses []core.Expense, category string) decimal.Decimal {
	if category != "" {
		filtered := make([]core.Expense, 0, len(expenses))
		for _, e := range expenses {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	series := MonthlySeries(expenses)
	switch len(series) {
	case 0:
		return decimal.Zero
	case 1:
		return series[0].Total
	}

	slope, intercept := fitLine(series)
	next := decimal.NewFromInt(int64(len(series) + 1))
	prediction := intercept.Add(slope.Mul(next)).Round(0)
	if prediction.IsNegative() {
		return decimal.Zero
	}
	return prediction
}

// fitLine computes the least-squares slope and intercept of totals against
// their 1-based positions. Callers guarantee at least two points, so the
// denominator n*sumXX - sumX^2 is positive.
func fitLine(series []MonthTotal) (slope, intercept decimal.Decimal) {
	n := decimal.NewFromInt(int64(len(series)))
	var sumX, sumY, sumXY, sumXX decimal.Decimal
	for i, m := range series {
		x := decimal.NewFromInt(int64(i + 1))
		sumX = sumX.Add(x)
		sumY = sumY.Add(m.Total)
		sumXY = sumXY.Add(x.Mul(m.Total))
		sumXX = sumXX.Add(x.Mul(x))
	}

	num := n.Mul(sumXY).Sub(sumX.Mul(sumY))
	den := n.Mul(sumXX).Sub(sumX.Mul(sumX))
	slope = num.Div(den)
	intercept = sumY.Sub(slope.Mul(sumX)).Div(n)
	return slope, intercept
}
