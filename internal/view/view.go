// Package view maps ledger state and aggregation results to display-ready
// structures. Pure mapping, no state of its own; clamping and formatting
// live here, never in stored state.
package view

import (
	"fmt"
	"math"
	"sort"

	"tally/internal/core"
	"tally/internal/currency"
)

type (
	// Row is one transaction prepared for the list: the amount is
	// converted to the display currency, formatted, and sign-prefixed.
	Row struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Date        string `json:"date"`
		Amount      string `json:"amount"`
		Income      bool   `json:"income"`
	}

	// MonthlyChart is the labels/series shape consumed by the trend chart.
	MonthlyChart struct {
		Labels  []string  `json:"labels"`
		Income  []float64 `json:"income"`
		Expense []float64 `json:"expense"`
	}

	// CategoryChart is the labels/values shape consumed by the breakdown
	// chart, largest category first.
	CategoryChart struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}

	Summary struct {
		Balance          string `json:"balance"`
		ConvertedBalance string `json:"convertedBalance"`
		Currency         string `json:"currency"`
		TotalIncome      string `json:"totalIncome"`
		TotalExpense     string `json:"totalExpense"`
		NetSavings       string `json:"netSavings"`
	}

	// Progress is the savings-goal widget model. Percent is clamped to
	// [0,100] for the bar; the raw aggregation value is not stored.
	Progress struct {
		Percent   float64 `json:"percent"`
		Display   string  `json:"display"`
		Goal      string  `json:"goal"`
		Saved     string  `json:"saved"`
		Remaining string  `json:"remaining"`
		Period    string  `json:"period"`
	}
)

// Adapter renders view models against a rate table and the selected display
// currency.
type Adapter struct {
	rates currency.RateTable
}

func New(rates currency.RateTable) *Adapter {
	return &Adapter{rates: rates}
}

// Rows maps a (filtered) snapshot to list rows in the given display currency.
func (a *Adapter) Rows(txs []core.Transaction, display string) []Row {
	rows := make([]Row, len(txs))
	for i, t := range txs {
		from := t.Currency
		if from == "" {
			from = core.BaseCurrency
		}
		converted := a.rates.Convert(math.Abs(t.Amount), from, display)
		prefix := "+"
		if t.Amount <= 0 && t.Type == core.Expense {
			prefix = "-"
		} else if t.Amount < 0 {
			prefix = "-"
		}
		rows[i] = Row{
			ID:          t.ID,
			Type:        string(t.Type),
			Description: t.Description,
			Category:    t.Category,
			Date:        t.Date,
			Amount:      prefix + currency.Format(converted, display),
			Income:      t.Amount > 0,
		}
	}
	return rows
}

// Monthly maps the monthly aggregation series to chart labels and parallel
// numeric arrays.
func (a *Adapter) Monthly(series []core.MonthTotals) MonthlyChart {
	chart := MonthlyChart{
		Labels:  make([]string, len(series)),
		Income:  make([]float64, len(series)),
		Expense: make([]float64, len(series)),
	}
	for i, mt := range series {
		chart.Labels[i] = mt.Month
		chart.Income[i] = mt.Income
		chart.Expense[i] = mt.Expense
	}
	return chart
}

// Categories maps category expense totals to chart labels and values,
// ordered by descending total with ties broken by name so the output is
// stable.
func (a *Adapter) Categories(totals map[string]float64) CategoryChart {
	labels := make([]string, 0, len(totals))
	for name := range totals {
		labels = append(labels, name)
	}
	sort.Slice(labels, func(i, j int) bool {
		if totals[labels[i]] != totals[labels[j]] {
			return totals[labels[i]] > totals[labels[j]]
		}
		return labels[i] < labels[j]
	})

	chart := CategoryChart{Labels: labels, Values: make([]float64, len(labels))}
	for i, name := range labels {
		chart.Values[i] = totals[name]
	}
	return chart
}

// Summarize renders the balance card: base-currency figures plus the balance
// converted to the display currency.
func (a *Adapter) Summarize(txs []core.Transaction, display string) Summary {
	balance := core.Balance(txs)
	return Summary{
		Balance:          currency.Format(balance, core.BaseCurrency),
		ConvertedBalance: currency.Format(a.rates.Convert(balance, core.BaseCurrency, display), display),
		Currency:         display,
		TotalIncome:      currency.Format(core.TotalIncome(txs), core.BaseCurrency),
		TotalExpense:     currency.Format(core.TotalExpense(txs), core.BaseCurrency),
		NetSavings:       currency.Format(core.NetSavings(txs), core.BaseCurrency),
	}
}

// GoalProgress renders the savings-goal widget.
func (a *Adapter) GoalProgress(goal core.SavingsGoal, txs []core.Transaction) Progress {
	savings := core.NetSavings(txs)
	percent := core.SavingsProgressPercent(goal, txs)
	clamped := math.Min(math.Max(percent, 0), 100)

	return Progress{
		Percent:   clamped,
		Display:   fmt.Sprintf("%.1f%%", clamped),
		Goal:      currency.Format(goal.Target, core.BaseCurrency),
		Saved:     currency.Format(math.Max(savings, 0), core.BaseCurrency),
		Remaining: currency.Format(math.Max(goal.Target-savings, 0), core.BaseCurrency),
		Period:    goal.Period,
	}
}
