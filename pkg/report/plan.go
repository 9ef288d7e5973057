package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/finsum/pkg/store"
)

// WritePlan prints a YNAB reconciliation preview, one line per transaction.
func WritePlan(w io.Writer, r *store.Report, color bool) error {
	syncedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))   // gray
	addedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))   // green
	updatedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	render := func(style lipgloss.Style, s string) string {
		if !color {
			return s
		}
		return style.Render(s)
	}

	for _, e := range r.Items {
		line := fmt.Sprintf("%s | %-30s | %-12s | %-18s | %s %s",
			e.Local.Date.Format("2006-01-02"), e.Local.Description, e.Local.ID, e.Local.CategoryOrDefault(), e.Local.Type, money(e.Local.Amount))
		var out string
		switch e.Status {
		case store.Synced:
			out = render(syncedStyle, "= "+line)
		case store.ToUpdate:
			out = render(updatedStyle, "~ "+line)
		default:
			out = render(addedStyle, "+ "+line)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	adds, updates := r.Count(store.ToAdd), r.Count(store.ToUpdate)
	var err error
	if adds == 0 && updates == 0 {
		_, err = fmt.Fprintf(w, "\nPlan: All %d transaction(s) are in sync\n", r.Count(store.Synced))
	} else {
		_, err = fmt.Fprintf(w, "\nPlan: %d transaction(s) will be added, %d updated, %d already in sync\n", adds, updates, r.Count(store.Synced))
	}
	return err
}
