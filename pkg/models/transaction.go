package models

import "time"

// Direction tells whether money came in or went out.
type Direction string

const (
	Income  Direction = "Income"
	Expense Direction = "Expense"
)

// Uncategorized is the label used when no category could be assigned.
const Uncategorized = "Uncategorized"

// Transaction is one normalized financial event parsed from a statement.
//
// Amount is never negative; the sign lives in Type. Category stays empty until
// a categorizer fills it in.
type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        Direction `json:"type"`
	Category    string    `json:"category,omitempty"`
	Bucket      string    `json:"bucketOfLife,omitempty"`
}

// IsIncome reports whether the transaction is money in.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// WithCategory returns a copy of t with only the category replaced.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

// CategoryOrDefault returns the category, or Uncategorized when it is empty.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}

// SignedAmount returns the amount with expenses negative.
func (t Transaction) SignedAmount() float64 {
	if t.Type == Expense {
		return -t.Amount
	}
	return t.Amount
}
