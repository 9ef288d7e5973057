package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yurifrl/finsum/pkg/models"
)

// dateLayouts are tried in order after the ISO form.
var dateLayouts = []string{
	"1/2/2006",
	"2006-1-2",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// isoDate accepts YYYY-MM-DD optionally followed by a time of day.
var isoDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[T ]\S.*)?$`)

// parseDate resolves a statement date to midnight of that calendar day in loc.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(stripQuotes(raw))
	if m := isoDate.FindStringSubmatch(s); m != nil {
		return time.ParseInLocation("2006-01-02", m[1], loc)
	}
	for _, layout := range dateLayouts {
		if date, err := time.ParseInLocation(layout, s, loc); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// normalize turns a parsed row into a transaction. index is the position of
// the row among the statement's data lines.
func normalize(row ParsedRow, fileName string, index int, loc *time.Location) (models.Transaction, error) {
	date, err := parseDate(row.Date, loc)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:          TransactionID(fileName, strconv.Itoa(index), row.Date, row.Description, formatAmount(row.Amount)),
		Date:        date,
		Description: stripQuotes(row.Description),
		Amount:      row.Amount,
		Type:        row.Type,
	}, nil
}
