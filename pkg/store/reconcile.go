package store

import (
	"fmt"
	"time"

	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/ynab"
)

// Status is the reconciliation result for a local transaction.
type Status int

const (
	Synced Status = iota
	ToAdd
	ToUpdate
)

func (s Status) String() string {
	switch s {
	case Synced:
		return "synced"
	case ToAdd:
		return "add"
	case ToUpdate:
		return "update"
	}
	return "unknown"
}

// Entry links a local transaction with its remote counterpart (nil when the
// status is ToAdd).
type Entry struct {
	Local  models.Transaction
	Remote *ynab.Transaction
	Status Status
}

// RemoteCustomID returns the remote CustomID when present.
func (e Entry) RemoteCustomID() string {
	if e.Remote == nil {
		return ""
	}
	return e.Remote.CustomID()
}

type Report struct {
	Items []Entry
}

// BuildReport matches local transactions against remote ones. Remotes that
// carry a custom id in their memo match by id and need an update when their
// category differs. Remotes without one match by amount, payee and date.
func BuildReport(local []models.Transaction, remote []*ynab.Transaction) *Report {
	byID := make(map[string]*ynab.Transaction, len(remote))
	byKey := make(map[string]*ynab.Transaction)
	for _, rt := range remote {
		if rt.Deleted {
			continue
		}
		if id := rt.CustomID(); id != "" {
			byID[id] = rt
			continue
		}
		payee := ""
		if rt.PayeeName != nil {
			payee = *rt.PayeeName
		}
		key := matchKey(decimal.New(rt.Amount, -3), payee, rt.Date.Time)
		if _, ok := byKey[key]; !ok {
			byKey[key] = rt
		}
	}

	items := make([]Entry, 0, len(local))
	for _, lt := range local {
		if rt, ok := byID[lt.ID]; ok {
			status := Synced
			if lt.Category != "" && rt.Category() != lt.Category {
				status = ToUpdate
			}
			items = append(items, Entry{Local: lt, Remote: rt, Status: status})
			continue
		}
		key := matchKey(decimal.New(Milliunits(lt), -3), lt.Description, lt.Date)
		if rt, ok := byKey[key]; ok {
			delete(byKey, key)
			items = append(items, Entry{Local: lt, Remote: rt, Status: Synced})
			continue
		}
		items = append(items, Entry{Local: lt, Status: ToAdd})
	}
	return &Report{Items: items}
}

func matchKey(amount decimal.Decimal, payee string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", amount.StringFixed(2), payee, date.Format("2006-01-02"))
}

// Count returns how many entries have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, e := range r.Items {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Entries returns the entries with status s.
func (r *Report) Entries(s Status) []Entry {
	var out []Entry
	for _, e := range r.Items {
		if e.Status == s {
			out = append(out, e)
		}
	}
	return out
}

// Payloads converts the transactions that still need creating into YNAB API
// payloads.
func (r *Report) Payloads(accountID string) []transaction.PayloadTransaction {
	out := make([]transaction.PayloadTransaction, 0)
	for _, e := range r.Entries(ToAdd) {
		out = append(out, Payload(accountID, e.Local))
	}
	return out
}

// Payload builds the YNAB payload of t. The memo carries the id and category
// so Load can rebuild the transaction.
func Payload(accountID string, t models.Transaction) transaction.PayloadTransaction {
	payee := t.Description
	memo := ynab.Memo(t.ID, t.Category)
	return transaction.PayloadTransaction{
		AccountID: accountID,
		Date:      api.Date{Time: time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)},
		Amount:    Milliunits(t),
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		PayeeName: &payee,
		Memo:      &memo,
	}
}

// Milliunits is the signed YNAB amount of t: outflows negative, in thousandths.
func Milliunits(t models.Transaction) int64 {
	return decimal.NewFromFloat(t.SignedAmount()).Shift(3).Round(0).IntPart()
}

// fromRemote rebuilds a transaction written by Payload. Remote transactions
// without a custom id were not created by finsum and are skipped.
func fromRemote(rt *ynab.Transaction, loc *time.Location) (models.Transaction, bool) {
	if rt.Deleted || rt.CustomID() == "" {
		return models.Transaction{}, false
	}

	amount := decimal.New(rt.Amount, -3)
	direction := models.Income
	if amount.IsNegative() {
		direction = models.Expense
	}
	description := ""
	if rt.PayeeName != nil {
		description = *rt.PayeeName
	}
	return models.Transaction{
		ID:          rt.CustomID(),
		Date:        time.Date(rt.Date.Year(), rt.Date.Month(), rt.Date.Day(), 0, 0, 0, 0, loc),
		Description: description,
		Amount:      amount.Abs().InexactFloat64(),
		Type:        direction,
		Category:    rt.Category(),
	}, true
}
