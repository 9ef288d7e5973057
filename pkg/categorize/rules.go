package categorize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/finsum/pkg/models"
)

var ErrInvalidRule = errors.New("invalid categorization rule")

// ExpenseCategories and IncomeCategories are the labels the default rules use.
var (
	ExpenseCategories = []string{
		"Rent/Mortgage", "Utilities", "Groceries", "Dining Out", "Transportation",
		"Retail", "Entertainment", "Healthcare", "Subscriptions", "Interest",
		"Bank Fees", "Personal Transfer", "Internal Transfer", "Loan", "Other Expense",
	}
	IncomeCategories = []string{"Salary", "Freelance", "Investment", "Other Income"}
)

// Rule assigns Category to transactions whose description contains any of
// Keywords, compared case-insensitively. When Type is set the rule only
// applies to transactions of that direction.
type Rule struct {
	Category string           `yaml:"category"`
	Type     models.Direction `yaml:"type,omitempty"`
	Keywords []string         `yaml:"keywords"`
}

func (r Rule) matches(t models.Transaction, description string) bool {
	if r.Type != "" && r.Type != t.Type {
		return false
	}
	for _, k := range r.Keywords {
		if k != "" && strings.Contains(description, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML file with a top level "rules" list.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	for i, r := range f.Rules {
		if r.Category == "" || len(r.Keywords) == 0 {
			return nil, fmt.Errorf("%w: rule %d needs a category and keywords", ErrInvalidRule, i+1)
		}
		if r.Type != "" && r.Type != models.Income && r.Type != models.Expense {
			return nil, fmt.Errorf("%w: rule %d has unknown type %q", ErrInvalidRule, i+1, r.Type)
		}
	}
	return f.Rules, nil
}

// DefaultRules covers common Canadian bank descriptions.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Salary", Type: models.Income, Keywords: []string{"payroll", "salary", "direct deposit", "direct dep"}},
		{Category: "Freelance", Type: models.Income, Keywords: []string{"freelance", "invoice", "upwork", "fiverr"}},
		{Category: "Investment", Type: models.Income, Keywords: []string{"dividend", "interest", "wealthsimple", "questrade"}},
		{Category: "Rent/Mortgage", Type: models.Expense, Keywords: []string{"apartment rent", "rent payment", "landlord", "mortgage"}},
		{Category: "Utilities", Type: models.Expense, Keywords: []string{"hydro", "enbridge", "electric", "water bill", "rogers", "bell canada", "telus"}},
		{Category: "Groceries", Type: models.Expense, Keywords: []string{"grocery", "supermarket", "loblaws", "sobeys", "no frills", "safeway", "costco"}},
		{Category: "Dining Out", Type: models.Expense, Keywords: []string{"restaurant", "cafe", "coffee", "starbucks", "tim hortons", "mcdonald", "uber eats", "doordash", "skipthedishes"}},
		{Category: "Transportation", Type: models.Expense, Keywords: []string{"uber", "lyft", "petro", "esso", "shell", "presto", "transit", "parking"}},
		{Category: "Subscriptions", Type: models.Expense, Keywords: []string{"netflix", "spotify", "disney", "apple.com", "youtube", "prime video"}},
		{Category: "Retail", Type: models.Expense, Keywords: []string{"amazon", "walmart", "best buy", "canadian tire", "ikea"}},
		{Category: "Entertainment", Type: models.Expense, Keywords: []string{"cinema", "cineplex", "theatre", "ticketmaster", "steam"}},
		{Category: "Healthcare", Type: models.Expense, Keywords: []string{"pharmacy", "shoppers drug", "dental", "clinic"}},
		{Category: "Interest", Type: models.Expense, Keywords: []string{"interest"}},
		{Category: "Bank Fees", Type: models.Expense, Keywords: []string{"service fee", "monthly fee", "service charge", "nsf fee", "overdraft"}},
		{Category: "Loan", Type: models.Expense, Keywords: []string{"loan"}},
		{Category: "Internal Transfer", Keywords: []string{"transfer to", "transfer from", "tfr-to", "tfr-fr"}},
		{Category: "Personal Transfer", Type: models.Expense, Keywords: []string{"e-transfer", "interac"}},
		{Category: "Other Income", Type: models.Income, Keywords: []string{"refund", "e-transfer", "deposit"}},
	}
}

// Rules is a keyword based Categorizer. The first matching rule wins and
// transactions nothing matches are Uncategorized.
type Rules struct {
	logger *log.Logger
	rules  []Rule
}

func NewRules(logger *log.Logger, rules []Rule) *Rules {
	return &Rules{logger: logger, rules: rules}
}

func (r *Rules) Categorize(_ context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	out := make([]models.Transaction, len(txs))
	matched := 0
	for i, t := range txs {
		out[i] = t.WithCategory(r.match(t))
		if out[i].Category != models.Uncategorized {
			matched++
		}
	}
	r.logger.Debug("categorized transactions", "total", len(txs), "matched", matched)
	return out, nil
}

func (r *Rules) match(t models.Transaction) string {
	description := strings.ToLower(t.Description)
	for _, rule := range r.rules {
		if rule.matches(t, description) {
			return rule.Category
		}
	}
	return models.Uncategorized
}
