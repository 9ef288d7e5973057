package aggregate

import (
	"sort"

	"github.com/yurifrl/finsum/pkg/models"
)

// Unassigned names the group of transactions that carry no bucket.
const Unassigned = "Unassigned"

// BucketSummary totals the transactions of one bucket of life.
type BucketSummary struct {
	Name             string           `json:"name"`
	Income           float64          `json:"income"`
	Expenses         float64          `json:"expenses"`
	TransactionCount int              `json:"transactionCount"`
	ExpenseBreakdown models.Breakdown `json:"expenseBreakdown"`
}

func (b BucketSummary) Net() float64 {
	return b.Income - b.Expenses
}

// Buckets groups transactions by bucket, sorted by bucket name.
func Buckets(txs []models.Transaction) []BucketSummary {
	ordered := canonical(txs)

	groups := make(map[string]*BucketSummary)
	for _, t := range ordered {
		name := t.Bucket
		if name == "" {
			name = Unassigned
		}
		g, ok := groups[name]
		if !ok {
			g = &BucketSummary{Name: name, ExpenseBreakdown: models.Breakdown{}}
			groups[name] = g
		}
		g.TransactionCount++
		if t.IsIncome() {
			g.Income += t.Amount
		} else {
			g.Expenses += t.Amount
			g.ExpenseBreakdown.Add(t.CategoryOrDefault(), t.Amount)
		}
	}

	out := make([]BucketSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
