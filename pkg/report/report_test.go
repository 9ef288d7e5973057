package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yurifrl/finsum/pkg/aggregate"
	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/store"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func sample() []models.Transaction {
	return []models.Transaction{
		{ID: "tx-1", Date: day(2025, time.January, 5), Description: "Apartment Rent", Amount: 2200, Type: models.Expense, Category: "Rent/Mortgage", Bucket: "Personal"},
		{ID: "tx-2", Date: day(2025, time.January, 15), Description: "Monthly Salary", Amount: 6500, Type: models.Income, Category: "Salary", Bucket: "Personal"},
		{ID: "tx-3", Date: day(2025, time.February, 3), Description: "Coffee, large", Amount: 4.5, Type: models.Expense, Category: "Dining Out"},
		{ID: "tx-4", Date: day(2024, time.December, 30), Description: "Bank fee", Amount: 0.1, Type: models.Expense},
	}
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"none", Filters{}, []string{"tx-1", "tx-2", "tx-3", "tx-4"}},
		{"start", Filters{Start: day(2025, time.January, 10)}, []string{"tx-2", "tx-3"}},
		{"end inclusive", Filters{End: day(2025, time.January, 5)}, []string{"tx-1", "tx-4"}},
		{"min", Filters{MinAmount: 100}, []string{"tx-1", "tx-2"}},
		{"max", Filters{MaxAmount: 5}, []string{"tx-3", "tx-4"}},
		{"description", Filters{Description: "SALARY"}, []string{"tx-2"}},
		{"type", Filters{Type: models.Income}, []string{"tx-2"}},
		{"uncategorized", Filters{Category: "uncategorized"}, []string{"tx-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample(), tt.filters.Func())
			ids := make([]string, len(got))
			for i, tx := range got {
				ids[i] = tx.ID
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, ids)
			}
		})
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, sample(), Filters{Type: models.Expense, MinAmount: 1}.Func()); err != nil {
		t.Fatalf("WriteTransactionsCSV failed: %v", err)
	}

	want := "ID,Date,Description,Type,Category,Bucket,Amount\n" +
		"tx-1,2025-01-05,Apartment Rent,Expense,Rent/Mortgage,Personal,2200.00\n" +
		"tx-3,2025-02-03,\"Coffee, large\",Expense,Dining Out,,4.50\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	txs := sample()
	data := aggregate.Aggregate(txs)

	var buf bytes.Buffer
	err := WriteSummary(&buf, data, SummaryOptions{Year: 2025, Buckets: aggregate.Buckets(txs)})
	if err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Monthly summary (2025)",
		"February 2025",
		"January 2025",
		"6500.00",
		"4295.40",
		"Rent/Mortgage",
		"Uncategorized",
		"status        positive",
		"Personal",
		"Unassigned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "December 2024") {
		t.Errorf("Expected 2024 periods to be filtered out:\n%s", out)
	}
	if strings.Index(out, "February 2025") > strings.Index(out, "January 2025") {
		t.Errorf("Expected most recent period first:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no escape codes without color:\n%q", out)
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, aggregate.Aggregate(nil), SummaryOptions{}); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no transactions") || strings.Contains(buf.String(), "Cash flow") {
		t.Errorf("Unexpected empty summary:\n%s", buf.String())
	}
}

func TestWriteSummaryInsights(t *testing.T) {
	txs := append(sample(), models.Transaction{
		ID: "tx-5", Date: day(2025, time.February, 20), Description: "Card interest", Amount: 30, Type: models.Expense, Category: "Interest",
	})

	var buf bytes.Buffer
	opts := SummaryOptions{Year: 2025}.Insights(txs)
	if err := WriteSummary(&buf, aggregate.Aggregate(txs), opts); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Spotlights", "Food", "Dining Out", "paid          30.00", "per month     10.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q:\n%s", want, out)
		}
	}
	if len(opts.Spotlights) != 3 || opts.Spotlights[0].Name != "Rent/Mortgage" {
		t.Errorf("Unexpected spotlights %+v", opts.Spotlights)
	}

	buf.Reset()
	if err := WriteSummary(&buf, aggregate.Aggregate(sample()), SummaryOptions{}.Insights(sample())); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if strings.Contains(buf.String(), "  paid ") {
		t.Errorf("Expected no interest section:\n%s", buf.String())
	}
}

func TestWritePlan(t *testing.T) {
	txs := sample()
	r := &store.Report{Items: []store.Entry{
		{Local: txs[0], Status: store.Synced},
		{Local: txs[1], Status: store.ToAdd},
		{Local: txs[2], Status: store.ToUpdate},
	}}

	var buf bytes.Buffer
	if err := WritePlan(&buf, r, false); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"= 2025-01-05", "+ 2025-01-15", "~ 2025-02-03", "1 transaction(s) will be added, 1 updated, 1 already in sync"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected plan to contain %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WritePlan(&buf, &store.Report{Items: []store.Entry{{Local: txs[0], Status: store.Synced}}}, false); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "All 1 transaction(s) are in sync") {
		t.Errorf("Unexpected plan:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, aggregate.Aggregate(sample()[:2])); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"periodSummaries", "totalIncome", "totalExpenses", "incomeBreakdown", "expenseBreakdown"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in %s", key, buf.String())
		}
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, sample()[0], false); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Apartment Rent") {
		t.Errorf("Expected dump to contain the description:\n%s", buf.String())
	}
}
