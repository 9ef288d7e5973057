package aggregate

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/yurifrl/finsum/pkg/models"
)

func tx(id string, date string, amount float64, direction models.Direction, category string) models.Transaction {
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return models.Transaction{ID: id, Date: d, Description: id, Amount: amount, Type: direction, Category: category}
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		tx("tx-1", "2025-01-15", 6500, models.Income, "Salary"),
		tx("tx-2", "2025-01-05", 2200, models.Expense, "Rent/Mortgage"),
		tx("tx-3", "2025-01-10", 150.1, models.Expense, "Utilities"),
		tx("tx-4", "2025-01-12", 320.33, models.Expense, "Dining Out"),
		tx("tx-5", "2025-02-15", 6000, models.Income, "Salary"),
		tx("tx-6", "2025-02-05", 2200, models.Expense, "Rent/Mortgage"),
		tx("tx-7", "2025-02-28", 25.07, models.Expense, "Interest"),
		tx("tx-8", "2025-03-25", 1500.5, models.Income, "Freelance"),
		tx("tx-9", "2024-12-31", 0.1, models.Expense, "Bank Fees"),
		tx("tx-10", "2025-03-20", 0.2, models.Expense, "Subscriptions"),
		tx("tx-11", "2025-03-28", 0.3, models.Expense, "Subscriptions"),
	}
}

func TestAggregateSingleMonth(t *testing.T) {
	data := Aggregate([]models.Transaction{
		tx("a", "2025-01-05", 2200, models.Expense, "Rent/Mortgage"),
		tx("b", "2025-01-15", 6500, models.Income, "Salary"),
	})

	if len(data.PeriodSummaries) != 1 {
		t.Fatalf("Expected 1 period, got %d", len(data.PeriodSummaries))
	}
	p := data.PeriodSummaries[0]
	if p.PeriodLabel != "January 2025" || p.Year != 2025 {
		t.Errorf("Unexpected label/year: %q %d", p.PeriodLabel, p.Year)
	}
	if !p.StartDate.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start date %s", p.StartDate)
	}
	if p.Income != 6500 || p.Expenses != 2200 {
		t.Errorf("Expected income 6500 and expenses 2200, got %v and %v", p.Income, p.Expenses)
	}
	if !reflect.DeepEqual(data.IncomeBreakdown, models.Breakdown{"Salary": 6500}) {
		t.Errorf("Unexpected income breakdown %v", data.IncomeBreakdown)
	}
	if !reflect.DeepEqual(data.ExpenseBreakdown, models.Breakdown{"Rent/Mortgage": 2200}) {
		t.Errorf("Unexpected expense breakdown %v", data.ExpenseBreakdown)
	}
	if !reflect.DeepEqual(data.IncomeBreakdown, p.IncomeBreakdown) || !reflect.DeepEqual(data.ExpenseBreakdown, p.ExpenseBreakdown) {
		t.Errorf("Overall breakdowns should match the only period")
	}
}

func TestAggregateBucketsByMonthStart(t *testing.T) {
	data := Aggregate([]models.Transaction{
		tx("a", "2025-01-31", 10, models.Expense, "Groceries"),
		tx("b", "2025-01-01", 5, models.Expense, "Groceries"),
	})

	if len(data.PeriodSummaries) != 1 {
		t.Fatalf("Expected 1 period, got %d", len(data.PeriodSummaries))
	}
	p := data.PeriodSummaries[0]
	if !p.StartDate.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start date %s", p.StartDate)
	}
	if p.ExpenseBreakdown["Groceries"] != 15 {
		t.Errorf("Expected Groceries to combine to 15, got %v", p.ExpenseBreakdown["Groceries"])
	}
}

func TestAggregatePeriodsSortedAscending(t *testing.T) {
	data := Aggregate(sampleTransactions())

	labels := make([]string, len(data.PeriodSummaries))
	for i, p := range data.PeriodSummaries {
		labels[i] = p.PeriodLabel
	}
	want := []string{"December 2024", "January 2025", "February 2025", "March 2025"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Expected %v, got %v", want, labels)
	}
	if data.PeriodSummaries[0].Year != 2024 {
		t.Errorf("Expected first period in 2024, got %d", data.PeriodSummaries[0].Year)
	}
}

func TestAggregateTotalsInvariant(t *testing.T) {
	data := Aggregate(sampleTransactions())

	var income, expenses, incomeBreakdown, expenseBreakdown float64
	for _, p := range data.PeriodSummaries {
		income += p.Income
		expenses += p.Expenses
		incomeBreakdown += p.IncomeBreakdown.Total()
		expenseBreakdown += p.ExpenseBreakdown.Total()
	}

	if income != data.TotalIncome {
		t.Errorf("Sum of period income %v != total income %v", income, data.TotalIncome)
	}
	if expenses != data.TotalExpenses {
		t.Errorf("Sum of period expenses %v != total expenses %v", expenses, data.TotalExpenses)
	}
	if !almostEqual(incomeBreakdown, data.TotalIncome) {
		t.Errorf("Income breakdowns sum to %v, total income is %v", incomeBreakdown, data.TotalIncome)
	}
	if !almostEqual(expenseBreakdown, data.TotalExpenses) {
		t.Errorf("Expense breakdowns sum to %v, total expenses is %v", expenseBreakdown, data.TotalExpenses)
	}
	if !almostEqual(data.ExpenseBreakdown.Total(), data.TotalExpenses) {
		t.Errorf("Overall expense breakdown sums to %v, total expenses is %v", data.ExpenseBreakdown.Total(), data.TotalExpenses)
	}
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	txs := sampleTransactions()
	want := Aggregate(txs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Transaction, len(txs))
		copy(shuffled, txs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Shuffle %d changed the result:\nwant %+v\ngot  %+v", i, want, got)
		}
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	txs := sampleTransactions()
	if !reflect.DeepEqual(Aggregate(txs), Aggregate(txs)) {
		t.Error("Aggregating the same list twice should give the same result")
	}
}

func TestAggregateEmpty(t *testing.T) {
	for _, txs := range [][]models.Transaction{nil, {}} {
		data := Aggregate(txs)
		if data.PeriodSummaries == nil || len(data.PeriodSummaries) != 0 {
			t.Errorf("Expected empty non-nil periods, got %#v", data.PeriodSummaries)
		}
		if data.TotalIncome != 0 || data.TotalExpenses != 0 {
			t.Errorf("Expected zero totals, got %v and %v", data.TotalIncome, data.TotalExpenses)
		}
		if data.IncomeBreakdown == nil || data.ExpenseBreakdown == nil {
			t.Error("Expected non-nil breakdowns")
		}
	}
}

func TestAggregateUncategorizedFallback(t *testing.T) {
	data := Aggregate([]models.Transaction{
		tx("a", "2025-05-01", 12, models.Expense, ""),
		tx("b", "2025-05-02", 8, models.Expense, models.Uncategorized),
	})
	if got := data.ExpenseBreakdown[models.Uncategorized]; got != 20 {
		t.Errorf("Expected 20 uncategorized, got %v", got)
	}
	if len(data.ExpenseBreakdown) != 1 {
		t.Errorf("Expected a single category, got %v", data.ExpenseBreakdown)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	txs := sampleTransactions()
	before := fmt.Sprint(txs)
	Aggregate(txs)
	if fmt.Sprint(txs) != before {
		t.Error("Aggregate reordered or changed its input")
	}
}

func TestProcessedDataYears(t *testing.T) {
	data := Aggregate(sampleTransactions())

	if got := data.Years(); !reflect.DeepEqual(got, []int{2025, 2024}) {
		t.Errorf("Expected [2025 2024], got %v", got)
	}
	periods := data.PeriodsForYear(2025)
	if len(periods) != 3 || periods[0].PeriodLabel != "March 2025" {
		t.Errorf("Expected three 2025 periods newest first, got %+v", periods)
	}
	if all := data.PeriodsForYear(0); len(all) != 4 {
		t.Errorf("Expected 4 periods for all years, got %d", len(all))
	}
}

func TestCashFlow(t *testing.T) {
	if _, ok := CashFlow(Aggregate(nil)); ok {
		t.Error("Expected no snapshot without activity")
	}

	saving, ok := CashFlow(Aggregate([]models.Transaction{
		tx("a", "2025-01-01", 1000, models.Income, "Salary"),
		tx("b", "2025-01-02", 400, models.Expense, "Groceries"),
		tx("c", "2025-02-01", 1000, models.Income, "Salary"),
		tx("d", "2025-02-02", 800, models.Expense, "Groceries"),
	}))
	if !ok {
		t.Fatal("Expected a snapshot")
	}
	if saving.Status != Positive || saving.ActivePeriods != 2 || saving.AverageNet != 400 || saving.TotalNet != 800 {
		t.Errorf("Unexpected snapshot %+v", saving)
	}
	if saving.AverageBurn() != 0 {
		t.Errorf("Expected no burn, got %v", saving.AverageBurn())
	}

	burning, _ := CashFlow(Aggregate([]models.Transaction{
		tx("a", "2025-01-01", 100, models.Income, "Salary"),
		tx("b", "2025-01-02", 400, models.Expense, "Groceries"),
	}))
	if burning.Status != Negative || burning.AverageBurn() != 300 {
		t.Errorf("Unexpected snapshot %+v", burning)
	}
}

func TestBuckets(t *testing.T) {
	txs := []models.Transaction{
		tx("a", "2025-01-01", 100, models.Expense, "Transportation"),
		tx("b", "2025-01-02", 50, models.Expense, "Transportation"),
		tx("c", "2025-01-03", 900, models.Income, "Other Income"),
		tx("d", "2025-01-04", 20, models.Expense, "Groceries"),
	}
	txs[0].Bucket = "Vehicle"
	txs[1].Bucket = "Vehicle"
	txs[2].Bucket = "Rental"

	got := Buckets(txs)
	if len(got) != 3 {
		t.Fatalf("Expected 3 buckets, got %d", len(got))
	}
	if got[0].Name != "Rental" || got[1].Name != Unassigned || got[2].Name != "Vehicle" {
		t.Errorf("Unexpected bucket order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
	vehicle := got[2]
	if vehicle.Expenses != 150 || vehicle.TransactionCount != 2 || vehicle.Net() != -150 {
		t.Errorf("Unexpected vehicle bucket %+v", vehicle)
	}
	if got[0].Income != 900 || len(got[0].ExpenseBreakdown) != 0 {
		t.Errorf("Unexpected rental bucket %+v", got[0])
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
