package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"

	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/ynab"
)

var ErrNoAccount = errors.New("no YNAB account configured")

// TransactionAPI is the part of the YNAB API the store needs.
type TransactionAPI interface {
	GetTransactionsByAccount(budgetID, accountID string) ([]*ynab.Transaction, error)
	CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error
	UpdateTransaction(budgetID, transactionID string, payload transaction.PayloadTransaction) error
}

type YNABAccount struct {
	BudgetID  string `yaml:"budget_id" mapstructure:"budget_id"`
	AccountID string `yaml:"account_id" mapstructure:"account_id"`
}

// YNAB keeps each user's transactions in a YNAB account.
type YNAB struct {
	api      TransactionAPI
	logger   *log.Logger
	fallback YNABAccount
	accounts map[string]YNABAccount
	location *time.Location
}

// NewYNAB stores every user in fallback unless WithAccount maps them
// elsewhere.
func NewYNAB(logger *log.Logger, api TransactionAPI, fallback YNABAccount, loc *time.Location) *YNAB {
	if loc == nil {
		loc = time.Local
	}
	return &YNAB{
		api:      api,
		logger:   logger,
		fallback: fallback,
		accounts: make(map[string]YNABAccount),
		location: loc,
	}
}

func (y *YNAB) WithAccount(userID string, account YNABAccount) *YNAB {
	y.accounts[userID] = account
	return y
}

func (y *YNAB) account(userID string) (YNABAccount, error) {
	account, ok := y.accounts[userOrDefault(userID)]
	if !ok {
		account = y.fallback
	}
	if account.BudgetID == "" || account.AccountID == "" {
		return YNABAccount{}, fmt.Errorf("%w for user %s", ErrNoAccount, userOrDefault(userID))
	}
	return account, nil
}

// Plan reconciles txs against the user's account without changing anything.
func (y *YNAB) Plan(ctx context.Context, userID string, txs []models.Transaction) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	account, err := y.account(userID)
	if err != nil {
		return nil, err
	}

	remote, err := y.api.GetTransactionsByAccount(account.BudgetID, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YNAB transactions: %w", err)
	}

	report := BuildReport(txs, remote)
	y.logger.Debug("reconciled with YNAB", "total", len(report.Items), "in_sync", report.Count(Synced), "to_add", report.Count(ToAdd), "to_update", report.Count(ToUpdate))
	return report, nil
}

func (y *YNAB) Save(ctx context.Context, userID string, txs []models.Transaction) error {
	report, err := y.Plan(ctx, userID, txs)
	if err != nil {
		return err
	}
	account, err := y.account(userID)
	if err != nil {
		return err
	}

	batch := report.Payloads(account.AccountID)
	if err := y.api.CreateTransactions(account.BudgetID, batch); err != nil {
		return fmt.Errorf("failed to create transactions: %w", err)
	}
	if len(batch) > 0 {
		y.logger.Info("created transactions", "count", len(batch), "account_id", account.AccountID)
	}

	for _, e := range report.Entries(ToUpdate) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := y.api.UpdateTransaction(account.BudgetID, e.Remote.ID, Payload(account.AccountID, e.Local)); err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", e.Local.ID, err)
		}
	}
	if n := report.Count(ToUpdate); n > 0 {
		y.logger.Info("updated transactions", "count", n, "account_id", account.AccountID)
	}
	return nil
}

func (y *YNAB) Load(ctx context.Context, userID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	account, err := y.account(userID)
	if err != nil {
		return nil, err
	}

	remote, err := y.api.GetTransactionsByAccount(account.BudgetID, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YNAB transactions: %w", err)
	}

	out := make([]models.Transaction, 0, len(remote))
	for _, rt := range remote {
		if t, ok := fromRemote(rt, y.location); ok {
			out = append(out, t)
		}
	}
	return out, nil
}
