package parser

import (
	"math"
	"strings"

	"github.com/yurifrl/finsum/pkg/models"
)

// ParsedRow is what a format specific row parser extracts from one line.
// Amount is never negative.
type ParsedRow struct {
	Date        string
	Description string
	Amount      float64
	Type        models.Direction
}

// rowParser returns false when the fields do not fit the format.
type rowParser func(parts []string) (ParsedRow, bool)

var rowParsers = map[Format]rowParser{
	FormatRBC:  parseRBCRow,
	FormatTD:   parseTDRow,
	FormatCIBC: parseCIBCRow,
}

// parseRBCRow reads a signed amount; positive means money in.
func parseRBCRow(parts []string) (ParsedRow, bool) {
	if len(parts) < 7 {
		return ParsedRow{}, false
	}
	date := parts[2]
	description := stripQuotes(strings.TrimSpace(parts[4] + " " + parts[5]))
	amount, ok := parseNumber(parts[6])
	if date == "" || description == "" || !ok {
		return ParsedRow{}, false
	}

	direction := models.Income
	if amount < 0 {
		direction = models.Expense
	}
	return ParsedRow{
		Date:        date,
		Description: description,
		Amount:      math.Abs(amount),
		Type:        direction,
	}, true
}

func parseTDRow(parts []string) (ParsedRow, bool) {
	if len(parts) < 4 {
		return ParsedRow{}, false
	}
	return parseDebitCredit(parts)
}

// parseCIBCRow accepts short rows where the credit column is missing.
func parseCIBCRow(parts []string) (ParsedRow, bool) {
	if len(parts) < 3 {
		return ParsedRow{}, false
	}
	return parseDebitCredit(parts)
}

// parseDebitCredit handles the date,description,debit,credit layout: a
// positive debit is an expense, otherwise a positive credit is income.
func parseDebitCredit(parts []string) (ParsedRow, bool) {
	date := parts[0]
	description := parts[1]
	debit, hasDebit := parseNumber(parts[2])
	var credit float64
	var hasCredit bool
	if len(parts) > 3 {
		credit, hasCredit = parseNumber(parts[3])
	}

	if date == "" || description == "" || (!hasDebit && !hasCredit) {
		return ParsedRow{}, false
	}
	if hasDebit && debit > 0 {
		return ParsedRow{Date: date, Description: description, Amount: debit, Type: models.Expense}, true
	}
	if hasCredit && credit > 0 {
		return ParsedRow{Date: date, Description: description, Amount: credit, Type: models.Income}, true
	}
	return ParsedRow{}, false
}
