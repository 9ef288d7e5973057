package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/finsum/pkg/aggregate"
	"github.com/yurifrl/finsum/pkg/models"
)

type SummaryOptions struct {
	// Year limits the period table to one year. Zero shows every year.
	Year    int
	Color   bool
	Buckets []aggregate.BucketSummary
	// Interest is nil when no transaction was categorized as interest.
	Interest   *aggregate.InterestSummary
	Spotlights []aggregate.Spotlight
}

// Insights fills the transaction derived views of the summary.
func (o SummaryOptions) Insights(txs []models.Transaction) SummaryOptions {
	o.Buckets = aggregate.Buckets(txs)
	o.Spotlights = aggregate.Spotlights(txs, o.Year, aggregate.DefaultSpotlights)
	o.Interest = nil
	if interest, ok := aggregate.InterestImpact(txs); ok {
		o.Interest = &interest
	}
	return o
}

type styles struct {
	title   func(string) string
	income  func(string) string
	expense func(string) string
	muted   func(string) string
}

func newStyles(color bool) styles {
	if !color {
		plain := func(s string) string { return s }
		return styles{title: plain, income: plain, expense: plain, muted: plain}
	}
	render := func(style lipgloss.Style) func(string) string {
		return func(s string) string { return style.Render(s) }
	}
	return styles{
		title:   render(lipgloss.NewStyle().Bold(true)),
		income:  render(lipgloss.NewStyle().Foreground(lipgloss.Color("10"))), // green
		expense: render(lipgloss.NewStyle().Foreground(lipgloss.Color("9"))),  // red
		muted:   render(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))),  // gray
	}
}

func (s styles) net(amount float64) string {
	if amount < 0 {
		return s.expense(money(amount))
	}
	return s.income(money(amount))
}

// WriteSummary prints the period table, the totals, both category breakdowns,
// the cash flow snapshot and whichever optional views opts carries.
func WriteSummary(w io.Writer, data *models.ProcessedData, opts SummaryOptions) error {
	st := newStyles(opts.Color)
	var b strings.Builder

	periods := data.PeriodsForYear(opts.Year)
	title := "All years"
	if opts.Year != 0 {
		title = fmt.Sprint(opts.Year)
	}
	fmt.Fprintf(&b, "%s\n", st.title("Monthly summary ("+title+")"))
	if len(periods) == 0 {
		fmt.Fprintf(&b, "%s\n", st.muted("  no transactions"))
	}
	for _, p := range periods {
		fmt.Fprintf(&b, "  %-16s income %12s  expenses %12s  net %12s\n",
			p.PeriodLabel, st.income(money(p.Income)), st.expense(money(p.Expenses)), st.net(p.Net()))
	}

	fmt.Fprintf(&b, "\n%s\n", st.title("Totals"))
	fmt.Fprintf(&b, "  income   %12s\n", st.income(money(data.TotalIncome)))
	fmt.Fprintf(&b, "  expenses %12s\n", st.expense(money(data.TotalExpenses)))
	fmt.Fprintf(&b, "  net      %12s\n", st.net(data.Net()))

	writeBreakdown(&b, st, "Income by category", data.IncomeBreakdown)
	writeBreakdown(&b, st, "Expenses by category", data.ExpenseBreakdown)

	if snapshot, ok := aggregate.CashFlow(data); ok {
		fmt.Fprintf(&b, "\n%s\n", st.title("Cash flow"))
		fmt.Fprintf(&b, "  status        %s\n", snapshot.Status)
		fmt.Fprintf(&b, "  active months %d\n", snapshot.ActivePeriods)
		fmt.Fprintf(&b, "  average net   %s\n", st.net(snapshot.AverageNet))
		if burn := snapshot.AverageBurn(); burn > 0 {
			fmt.Fprintf(&b, "  average burn  %s\n", st.expense(money(burn)))
		}
	}

	if len(opts.Spotlights) > 0 {
		fmt.Fprintf(&b, "\n%s\n", st.title("Spotlights"))
		for _, spot := range opts.Spotlights {
			fmt.Fprintf(&b, "  %-20s %12s\n", spot.Name, st.expense(money(spot.Total)))
			if len(spot.Breakdown) < 2 {
				continue
			}
			for _, part := range spot.Breakdown.Categories() {
				fmt.Fprintf(&b, "    %-18s %12s\n", part, st.muted(money(spot.Breakdown[part])))
			}
		}
	}

	if opts.Interest != nil {
		fmt.Fprintf(&b, "\n%s\n", st.title("Interest"))
		fmt.Fprintf(&b, "  paid          %s\n", st.expense(money(opts.Interest.Total)))
		fmt.Fprintf(&b, "  transactions  %d\n", opts.Interest.TransactionCount)
		fmt.Fprintf(&b, "  per month     %s\n", st.expense(money(opts.Interest.AveragePerPeriod)))
	}

	if len(opts.Buckets) > 0 {
		fmt.Fprintf(&b, "\n%s\n", st.title("Buckets"))
		for _, bucket := range opts.Buckets {
			fmt.Fprintf(&b, "  %-16s %4d tx  income %12s  expenses %12s  net %12s\n",
				bucket.Name, bucket.TransactionCount, st.income(money(bucket.Income)), st.expense(money(bucket.Expenses)), st.net(bucket.Net()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBreakdown(b *strings.Builder, st styles, title string, breakdown models.Breakdown) {
	if len(breakdown) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", st.title(title))
	total := breakdown.Total()
	for _, category := range breakdown.Categories() {
		share := 0.0
		if total > 0 {
			share = breakdown[category] / total * 100
		}
		fmt.Fprintf(b, "  %-20s %12s %s\n", category, money(breakdown[category]), st.muted(fmt.Sprintf("%5.1f%%", share)))
	}
}
