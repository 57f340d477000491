package analytics

import (
	"math"

	"rupeetrack/internal/core"
)

const (
	// MinAnomalySample is the number of expenses a category needs before it is analysed.
	MinAnomalySample = 3
	// AnomalyDeviations is how many standard deviations above the mean an amount must exceed.
	AnomalyDeviations = 2
)

// IdentifyAnomalies flags expenses whose amount is strictly greater than
// mean + 2σ of their category, using the population standard deviation.
// Categories with fewer than MinAnomalySample expenses are skipped.
// Results are grouped by category in first-seen order, keeping input order
// within a category.
func IdentifyAnomalies(expenses []core.Expense) []core.Expense {
	var order []string
	byCategory := make(map[string][]core.Expense)
	for _, e := range expenses {
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	var anomalies []core.Expense
	for _, category := range order {
		group := byCategory[category]
		if len(group) < MinAnomalySample {
			continue
		}
		threshold := anomalyThreshold(group)
		for _, e := range group {
			if e.Amount.InexactFloat64() > threshold {
				anomalies = append(anomalies, e)
			}
		}
	}
	return anomalies
}

func anomalyThreshold(group []core.Expense) float64 {
	n := float64(len(group))
	var sum float64
	for _, e := range group {
		sum += e.Amount.InexactFloat64()
	}
	mean := sum / n

	var squares float64
	for _, e := range group {
		d := e.Amount.InexactFloat64() - mean
		squares += d * d
	}
	stddev := math.Sqrt(squares / n)
	return mean + AnomalyDeviations*stddev
}
