package aggregate

import (
	"sort"

	"github.com/yurifrl/finsum/pkg/models"
)

// InterestCategory is the category interest charges are filed under.
const InterestCategory = "Interest"

// DefaultSpotlights is how many spotlights the summary shows.
const DefaultSpotlights = 4

// InterestSummary reports what interest charges cost.
type InterestSummary struct {
	Total            float64 `json:"totalInterestPaid"`
	AveragePerPeriod float64 `json:"averagePeriodInterest"`
	TransactionCount int     `json:"transactionCount"`
	ActivePeriods    int     `json:"activePeriods"`
}

// InterestImpact totals the Interest transactions and averages them over the
// months that have any transaction at all. It reports false when nothing was
// categorized as interest.
func InterestImpact(txs []models.Transaction) (InterestSummary, bool) {
	ordered := canonical(txs)

	var s InterestSummary
	months := make(map[int64]bool)
	for _, t := range ordered {
		months[StartOfMonth(t.Date).Unix()] = true
		if t.Category != InterestCategory {
			continue
		}
		s.Total += t.Amount
		s.TransactionCount++
	}
	if s.TransactionCount == 0 {
		return InterestSummary{}, false
	}

	s.ActivePeriods = len(months)
	s.AveragePerPeriod = s.Total / float64(max(s.ActivePeriods, 1))
	return s, true
}

// Spotlight is one highlighted spending group.
type Spotlight struct {
	Name      string           `json:"name"`
	Total     float64          `json:"total"`
	Breakdown models.Breakdown `json:"breakdown"`
}

// spotlightGroups are checked before the remaining categories, in this order.
var spotlightGroups = []struct {
	name       string
	categories []string
}{
	{"Food", []string{"Groceries", "Dining Out"}},
	{"Rent/Mortgage", []string{"Rent/Mortgage"}},
	{"Subscriptions", []string{"Subscriptions"}},
	{"Transportation", []string{"Transportation"}},
}

// Spotlights returns the n biggest expense groups of year (0 for every
// year). Groceries and Dining Out are merged into Food and subscriptions are
// broken down by description. Ties keep the group order above, then category
// name order.
func Spotlights(txs []models.Transaction, year, n int) []Spotlight {
	totals := models.Breakdown{}
	subscriptions := models.Breakdown{}
	for _, t := range canonical(txs) {
		if t.IsIncome() || (year != 0 && t.Date.Year() != year) {
			continue
		}
		category := t.CategoryOrDefault()
		totals.Add(category, t.Amount)
		if category == "Subscriptions" {
			subscriptions.Add(t.Description, t.Amount)
		}
	}

	out := make([]Spotlight, 0, len(spotlightGroups))
	claimed := make(map[string]bool)
	for _, g := range spotlightGroups {
		s := Spotlight{Name: g.name, Breakdown: models.Breakdown{}}
		for _, c := range g.categories {
			s.Total += totals[c]
			s.Breakdown[c] = totals[c]
		}
		if s.Total <= 0 {
			continue
		}
		for _, c := range g.categories {
			claimed[c] = true
		}
		if g.name == "Subscriptions" {
			s.Breakdown = subscriptions
		}
		out = append(out, s)
	}

	for _, c := range totals.Categories() {
		if claimed[c] || totals[c] <= 0 {
			continue
		}
		out = append(out, Spotlight{Name: c, Total: totals[c], Breakdown: models.Breakdown{c: totals[c]}})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func canonical(txs []models.Transaction) []models.Transaction {
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return canonicalLess(ordered[i], ordered[j])
	})
	return ordered
}
