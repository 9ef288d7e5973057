package models

import (
	"sort"
	"time"
)

// Breakdown maps a category label to a summed amount.
type Breakdown map[string]float64

// Add accumulates amount under category.
func (b Breakdown) Add(category string, amount float64) {
	b[category] += amount
}

// Merge adds every entry of other into b.
func (b Breakdown) Merge(other Breakdown) {
	for _, category := range other.Categories() {
		b[category] += other[category]
	}
}

// Total sums all values, in category order.
func (b Breakdown) Total() float64 {
	var total float64
	for _, category := range b.Categories() {
		total += b[category]
	}
	return total
}

// Categories returns the keys sorted alphabetically.
func (b Breakdown) Categories() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PeriodSummary holds the totals of one calendar month.
type PeriodSummary struct {
	PeriodLabel      string    `json:"periodLabel"`
	Year             int       `json:"year"`
	StartDate        time.Time `json:"startDate"`
	Income           float64   `json:"income"`
	Expenses         float64   `json:"expenses"`
	IncomeBreakdown  Breakdown `json:"incomeBreakdown"`
	ExpenseBreakdown Breakdown `json:"expenseBreakdown"`
}

// Net is income minus expenses for the period.
func (p PeriodSummary) Net() float64 {
	return p.Income - p.Expenses
}

// Active reports whether anything happened in the period.
func (p PeriodSummary) Active() bool {
	return p.Income > 0 || p.Expenses > 0
}

// ProcessedData is the fully derived summary handed to presentation. It is
// rebuilt from scratch whenever the transaction set changes.
type ProcessedData struct {
	PeriodSummaries  []PeriodSummary `json:"periodSummaries"`
	TotalIncome      float64         `json:"totalIncome"`
	TotalExpenses    float64         `json:"totalExpenses"`
	IncomeBreakdown  Breakdown       `json:"incomeBreakdown"`
	ExpenseBreakdown Breakdown       `json:"expenseBreakdown"`
}

// Net is total income minus total expenses.
func (d *ProcessedData) Net() float64 {
	return d.TotalIncome - d.TotalExpenses
}

// Years returns the distinct years that have periods, most recent first.
func (d *ProcessedData) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, p := range d.PeriodSummaries {
		if !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// PeriodsForYear returns the active periods of year, most recent first.
// A year of 0 selects every year.
func (d *ProcessedData) PeriodsForYear(year int) []PeriodSummary {
	var out []PeriodSummary
	for _, p := range d.PeriodSummaries {
		if !p.Active() {
			continue
		}
		if year != 0 && p.Year != year {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}
