// Package aggregate folds categorized transactions into monthly summaries.
package aggregate

import (
	"sort"
	"time"

	"github.com/yurifrl/finsum/pkg/models"
)

// StartOfMonth returns midnight on the first day of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodLabel renders a period start as "January 2025". Month names are
// always English regardless of the host locale.
func PeriodLabel(start time.Time) string {
	return start.Format("January 2006")
}

// Aggregate buckets transactions into calendar months and computes per-period
// and overall totals and category breakdowns. Months without transactions do
// not appear. Transactions without a category count as Uncategorized.
//
// The result does not depend on the order of txs: transactions are folded in
// a canonical order so floating point sums come out bit-identical.
func Aggregate(txs []models.Transaction) *models.ProcessedData {
	ordered := canonical(txs)

	periods := make(map[string]*models.PeriodSummary)
	for _, t := range ordered {
		start := StartOfMonth(t.Date)
		key := start.Format("2006-01-02")

		p, ok := periods[key]
		if !ok {
			p = &models.PeriodSummary{
				PeriodLabel:      PeriodLabel(start),
				Year:             start.Year(),
				StartDate:        start,
				IncomeBreakdown:  models.Breakdown{},
				ExpenseBreakdown: models.Breakdown{},
			}
			periods[key] = p
		}

		category := t.CategoryOrDefault()
		if t.IsIncome() {
			p.Income += t.Amount
			p.IncomeBreakdown.Add(category, t.Amount)
		} else {
			p.Expenses += t.Amount
			p.ExpenseBreakdown.Add(category, t.Amount)
		}
	}

	summaries := make([]models.PeriodSummary, 0, len(periods))
	for _, p := range periods {
		summaries = append(summaries, *p)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartDate.Before(summaries[j].StartDate)
	})

	data := &models.ProcessedData{
		PeriodSummaries:  summaries,
		IncomeBreakdown:  models.Breakdown{},
		ExpenseBreakdown: models.Breakdown{},
	}
	for _, p := range summaries {
		data.TotalIncome += p.Income
		data.TotalExpenses += p.Expenses
		data.IncomeBreakdown.Merge(p.IncomeBreakdown)
		data.ExpenseBreakdown.Merge(p.ExpenseBreakdown)
	}
	return data
}

func canonicalLess(a, b models.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Amount != b.Amount {
		return a.Amount < b.Amount
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Description < b.Description
}
