// Package report renders transactions and summaries for the terminal.
package report

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/finsum/pkg/models"
)

type FilterFunc func(models.Transaction) bool

// Filters narrows down transactions. Zero values do not filter.
type Filters struct {
	Start       time.Time
	End         time.Time
	MinAmount   float64
	MaxAmount   float64
	Description string
	Type        models.Direction
	Category    string
}

func (f Filters) Func() FilterFunc {
	return func(t models.Transaction) bool {
		if !f.Start.IsZero() && t.Date.Before(f.Start) {
			return false
		}
		if !f.End.IsZero() && t.Date.After(f.End) {
			return false
		}
		if f.MinAmount != 0 && t.Amount < f.MinAmount {
			return false
		}
		if f.MaxAmount != 0 && t.Amount > f.MaxAmount {
			return false
		}
		if f.Description != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Description)) {
			return false
		}
		if f.Type != "" && t.Type != f.Type {
			return false
		}
		if f.Category != "" && !strings.EqualFold(t.CategoryOrDefault(), f.Category) {
			return false
		}
		return true
	}
}

// Filter returns the transactions fn accepts. A nil fn accepts everything.
func Filter(txs []models.Transaction, fn FilterFunc) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if fn == nil || fn(t) {
			out = append(out, t)
		}
	}
	return out
}

// WriteTransactionsCSV writes one row per transaction accepted by filter.
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction, filter FilterFunc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Date", "Description", "Type", "Category", "Bucket", "Amount"}); err != nil {
		return err
	}
	for _, t := range Filter(txs, filter) {
		err := cw.Write([]string{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Description,
			string(t.Type),
			t.Category,
			t.Bucket,
			money(t.Amount),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
