package categorize

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/finsum/pkg/models"
)

var testLogger = log.New(io.Discard)

func makeTxs(n int) []models.Transaction {
	txs := make([]models.Transaction, n)
	for i := range txs {
		txs[i] = models.Transaction{
			ID:          "tx-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Date:        time.Date(2025, time.January, 1+i%28, 0, 0, 0, 0, time.UTC),
			Description: "purchase",
			Amount:      float64(i + 1),
			Type:        models.Expense,
		}
	}
	return txs
}

type fakeCategorizer struct {
	calls   int
	failOn  map[int]bool
	dropIDs map[string]bool
}

func (f *fakeCategorizer) Categorize(_ context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	f.calls++
	if f.failOn[f.calls] {
		return nil, errors.New("model unavailable")
	}
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.dropIDs[t.ID] {
			continue
		}
		// Fields other than the category must not leak back.
		t.Description = "rewritten"
		t.Amount = -1
		out = append(out, t.WithCategory("Groceries"))
	}
	return out, nil
}

func TestChunkedBatchesAndReportsProgress(t *testing.T) {
	txs := makeTxs(120)
	fake := &fakeCategorizer{}

	var progress [][2]int
	out, err := Chunked(context.Background(), testLogger, fake, txs, 50, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	if err != nil {
		t.Fatalf("Chunked failed: %v", err)
	}

	if fake.calls != 3 {
		t.Errorf("Expected 3 chunks, got %d", fake.calls)
	}
	want := [][2]int{{50, 120}, {100, 120}, {120, 120}}
	if !reflect.DeepEqual(progress, want) {
		t.Errorf("Expected progress %v, got %v", want, progress)
	}
	if len(out) != len(txs) {
		t.Fatalf("Expected %d transactions, got %d", len(txs), len(out))
	}
	for i := range out {
		if out[i].ID != txs[i].ID || out[i].Description != txs[i].Description || out[i].Amount != txs[i].Amount {
			t.Fatalf("Transaction %d changed beyond its category: %+v", i, out[i])
		}
		if out[i].Category != "Groceries" {
			t.Errorf("Expected Groceries, got %q", out[i].Category)
		}
	}
}

func TestChunkedFallsBackToUncategorized(t *testing.T) {
	txs := makeTxs(6)
	fake := &fakeCategorizer{
		failOn:  map[int]bool{2: true},
		dropIDs: map[string]bool{txs[0].ID: true},
	}

	out, err := Chunked(context.Background(), testLogger, fake, txs, 3, nil)
	if err != nil {
		t.Fatalf("Chunked failed: %v", err)
	}

	want := []string{models.Uncategorized, "Groceries", "Groceries", models.Uncategorized, models.Uncategorized, models.Uncategorized}
	for i, c := range want {
		if out[i].Category != c {
			t.Errorf("Transaction %d: expected %q, got %q", i, c, out[i].Category)
		}
	}
}

func TestChunkedDefaultSizeAndEmptyInput(t *testing.T) {
	fake := &fakeCategorizer{}
	out, err := Chunked(context.Background(), testLogger, fake, makeTxs(51), 0, nil)
	if err != nil {
		t.Fatalf("Chunked failed: %v", err)
	}
	if fake.calls != 2 || len(out) != 51 {
		t.Errorf("Expected 2 calls and 51 transactions, got %d and %d", fake.calls, len(out))
	}

	out, err = Chunked(context.Background(), testLogger, &fakeCategorizer{}, nil, 50, nil)
	if err != nil || len(out) != 0 {
		t.Errorf("Expected empty result, got %v, %v", out, err)
	}
}

func TestChunkedStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Chunked(ctx, testLogger, &fakeCategorizer{}, makeTxs(3), 50, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRecategorize(t *testing.T) {
	txs := makeTxs(3)
	txs[1].Category = "Groceries"

	out, ok := Recategorize(txs, txs[1].ID, "Dining Out")
	if !ok {
		t.Fatal("Expected a match")
	}
	if out[1].Category != "Dining Out" {
		t.Errorf("Expected Dining Out, got %q", out[1].Category)
	}
	if txs[1].Category != "Groceries" {
		t.Error("Recategorize modified its input")
	}
	want := txs[1].WithCategory("Dining Out")
	if !reflect.DeepEqual(out[1], want) {
		t.Errorf("Expected only the category to change, got %+v", out[1])
	}

	if _, ok := Recategorize(txs, "tx-missing", "Loan"); ok {
		t.Error("Expected no match for unknown id")
	}
}

func TestRulesCategorize(t *testing.T) {
	tests := []struct {
		description string
		direction   models.Direction
		want        string
	}{
		{"Apartment Rent", models.Expense, "Rent/Mortgage"},
		{"Monthly Salary", models.Income, "Salary"},
		{"STARBUCKS #1234", models.Expense, "Dining Out"},
		{"UBER EATS ORDER", models.Expense, "Dining Out"},
		{"UBER TRIP", models.Expense, "Transportation"},
		{"INTEREST CHARGE", models.Expense, "Interest"},
		{"Interest paid", models.Income, "Investment"},
		{"INTERAC E-TRANSFER", models.Expense, "Personal Transfer"},
		{"INTERAC E-TRANSFER", models.Income, "Other Income"},
		{"TRANSFER TO SAVINGS", models.Expense, "Internal Transfer"},
		{"SOMETHING ELSE", models.Expense, models.Uncategorized},
	}

	rules := NewRules(testLogger, DefaultRules())
	for _, tt := range tests {
		t.Run(tt.description+"/"+string(tt.direction), func(t *testing.T) {
			in := []models.Transaction{{ID: "tx-1", Description: tt.description, Amount: 1, Type: tt.direction}}
			out, err := rules.Categorize(context.Background(), in)
			if err != nil {
				t.Fatalf("Categorize failed: %v", err)
			}
			if out[0].Category != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, out[0].Category)
			}
		})
	}
}

func TestDefaultRulesUseKnownCategories(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range append(append([]string{}, ExpenseCategories...), IncomeCategories...) {
		known[c] = true
	}
	for _, r := range DefaultRules() {
		if !known[r.Category] {
			t.Errorf("Default rule uses unknown category %q", r.Category)
		}
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "rules.yaml")
	content := "rules:\n  - category: Groceries\n    type: Expense\n    keywords: [farmers market]\n  - category: Salary\n    keywords: [acme corp]\n"
	if err := os.WriteFile(valid, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadRules(valid)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	want := []Rule{
		{Category: "Groceries", Type: models.Expense, Keywords: []string{"farmers market"}},
		{Category: "Salary", Keywords: []string{"acme corp"}},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Errorf("Expected %+v, got %+v", want, rules)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rules:\n  - category: Groceries\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(invalid); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("Expected ErrInvalidRule, got %v", err)
	}

	badType := filepath.Join(dir, "bad-type.yaml")
	if err := os.WriteFile(badType, []byte("rules:\n  - category: Groceries\n    type: Refund\n    keywords: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(badType); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("Expected ErrInvalidRule, got %v", err)
	}

	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestBucketAssigner(t *testing.T) {
	assigner := NewBucketAssigner([]Bucket{
		{Name: "Vehicle", Keywords: []string{"Petro", "honda finance"}},
		{Name: "Rental", Keywords: []string{"tenant"}},
		{Name: "", Keywords: []string{"ignored"}},
		{Name: "Empty"},
	})

	txs := []models.Transaction{
		{ID: "a", Description: "PETRO-CANADA 123"},
		{ID: "b", Description: "Tenant payment unit 2"},
		{ID: "c", Description: "ignored keyword"},
		{ID: "d", Description: "Groceries"},
	}
	out := assigner.Assign(txs)

	want := []string{"Vehicle", "Rental", DefaultBucket, DefaultBucket}
	for i, b := range want {
		if out[i].Bucket != b {
			t.Errorf("Transaction %s: expected bucket %q, got %q", out[i].ID, b, out[i].Bucket)
		}
	}
	if txs[0].Bucket != "" {
		t.Error("Assign modified its input")
	}
}
