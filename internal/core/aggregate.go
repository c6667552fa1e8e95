package core

import (
	"math"
	"sort"
)

// MonthTotals is one point of the monthly income/expense series.
type MonthTotals struct {
	Month   string
	Income  float64
	Expense float64
}

// Balance sums all amounts in the snapshot. The sign convention makes this
// the net balance without any type filtering.
func Balance(txs []Transaction) float64 {
	var sum float64
	for _, t := range txs {
		sum += t.Amount
	}
	return sum
}

// TotalIncome sums the absolute amounts of income transactions.
func TotalIncome(txs []Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == Income {
			sum += math.Abs(t.Amount)
		}
	}
	return sum
}

// TotalExpense sums the absolute amounts of expense transactions.
func TotalExpense(txs []Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == Expense {
			sum += math.Abs(t.Amount)
		}
	}
	return sum
}

func NetSavings(txs []Transaction) float64 {
	return TotalIncome(txs) - TotalExpense(txs)
}

// SavingsProgressPercent returns net savings as a percentage of the goal
// target, or 0 when no goal is set. The raw value may be negative or exceed
// 100; clamping is a presentation concern.
func SavingsProgressPercent(goal SavingsGoal, txs []Transaction) float64 {
	if goal.Target <= 0 {
		return 0
	}
	return NetSavings(txs) / goal.Target * 100
}

// MonthlySeries groups transactions by their year-month key and totals income
// and expense per month. Months come back in ascending lexical order, which is
// chronological for ISO dates. Amount sign decides the bucket, matching the
// stored-sign invariant.
func MonthlySeries(txs []Transaction) []MonthTotals {
	byMonth := make(map[string]*MonthTotals)
	for _, t := range txs {
		key := t.Month()
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotals{Month: key}
			byMonth[key] = mt
		}
		if t.Amount > 0 {
			mt.Income += t.Amount
		} else {
			mt.Expense += math.Abs(t.Amount)
		}
	}

	out := make([]MonthTotals, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategoryTotals sums absolute expense amounts per category. Only expense
// transactions contribute. Category keys are used as given; an empty category
// is its own bucket.
func CategoryTotals(txs []Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		totals[t.Category] += math.Abs(t.Amount)
	}
	return totals
}
