package ynab

import (
	"strings"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api/account"
	"github.com/brunomvsouza/ynab.go/api/budget"
	"github.com/brunomvsouza/ynab.go/api/transaction"
)

// Client wraps the YNAB client so transactions come back with the id and
// category finsum wrote into their memo.
type Client struct {
	client ynab.ClientServicer
}

// TransactionService wraps the original transaction service
type TransactionService struct {
	original *transaction.Service
}

// Transaction wraps the core YNAB transaction adding the custom id and
// category stored in the memo.
type Transaction struct {
	*transaction.Transaction
	customID string
	category string
}

// Memo encodes a transaction id and category the way ParseMemo reads them.
func Memo(id, category string) string {
	return id + "," + category
}

// ParseMemo splits a "<id>,<category>" memo. Memos without a comma carry no
// id.
func ParseMemo(memo string) (id, category string) {
	memo = strings.Trim(memo, "\"")
	idx := strings.Index(memo, ",")
	if idx <= 0 {
		return "", ""
	}
	return memo[:idx], strings.TrimSpace(memo[idx+1:])
}

func New(token string) *Client {
	return &Client{
		client: ynab.NewClient(token),
	}
}

func (c *Client) Transaction() *TransactionService {
	return &TransactionService{
		original: c.client.Transaction(),
	}
}

func (c *Client) Budget() *budget.Service {
	return c.client.Budget()
}

func (c *Client) Account() *account.Service {
	return c.client.Account()
}

func (ts *TransactionService) GetTransactionsByAccount(budgetID, accountID string) ([]*Transaction, error) {
	originalTransactions, err := ts.original.GetTransactionsByAccount(budgetID, accountID, nil)
	if err != nil {
		return nil, err
	}

	transactions := make([]*Transaction, 0, len(originalTransactions))
	for _, tx := range originalTransactions {
		transactions = append(transactions, Wrap(tx))
	}
	return transactions, nil
}

// CreateTransactions creates multiple transactions in one API call
func (ts *TransactionService) CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error {
	if len(payloads) == 0 {
		return nil
	}
	_, err := ts.original.CreateTransactions(budgetID, payloads)
	return err
}

func (ts *TransactionService) UpdateTransaction(budgetID, transactionID string, payload transaction.PayloadTransaction) error {
	_, err := ts.original.UpdateTransaction(budgetID, transactionID, payload)
	return err
}

// Wrap reads the memo of a YNAB transaction.
func Wrap(tx *transaction.Transaction) *Transaction {
	t := &Transaction{Transaction: tx}
	if tx != nil && tx.Memo != nil {
		t.customID, t.category = ParseMemo(*tx.Memo)
	}
	return t
}

func (t *Transaction) CustomID() string {
	return t.customID
}

func (t *Transaction) Category() string {
	return t.category
}
