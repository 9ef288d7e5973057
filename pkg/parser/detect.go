package parser

import (
	"regexp"
	"strings"
)

// Format identifies one of the bank export layouts we understand.
type Format string

const (
	// FormatRBC rows carry the date in column 3, the description split over
	// columns 5 and 6 and a signed amount in column 7.
	FormatRBC Format = "rbc"
	// FormatTD rows are date,description,debit,credit,balance.
	FormatTD Format = "td"
	// FormatCIBC rows are date,description,debit,credit with an ISO date.
	FormatCIBC Format = "cibc"
)

// SupportedFormats lists the formats in the order they are reported to users.
var SupportedFormats = []Format{FormatTD, FormatRBC, FormatCIBC}

// probeLines is how many leading lines the structural probes look at.
const probeLines = 5

var (
	isoDatePrefix   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDatePrefix = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
)

// Detect decides which format the statement lines are in. lines must already
// be trimmed and free of empty entries.
//
// The probe order matters: TD and CIBC shapes overlap on short rows, so TD is
// tried first, then CIBC, then the headerless RBC shape.
func Detect(lines []string) (Format, error) {
	if len(lines) == 0 {
		return "", ErrUnrecognizedFormat
	}
	if hasRBCHeader(lines[0]) {
		return FormatRBC, nil
	}

	n := len(lines)
	if n > probeLines {
		n = probeLines
	}
	for _, line := range lines[:n] {
		parts := splitFields(line)
		if isTDRow(parts) {
			return FormatTD, nil
		}
		if isCIBCRow(parts) {
			return FormatCIBC, nil
		}
		if isRBCRow(parts) {
			return FormatRBC, nil
		}
	}
	return "", ErrUnrecognizedFormat
}

func hasRBCHeader(line string) bool {
	header := strings.ToLower(line)
	return strings.Contains(header, "account type") && strings.Contains(header, "account number")
}

func isTDRow(parts []string) bool {
	if len(parts) != 5 || parts[3] != "" {
		return false
	}
	_, ok := parseNumber(parts[2])
	return ok
}

func isCIBCRow(parts []string) bool {
	if len(parts) != 4 {
		return false
	}
	return (parts[2] == "" || parts[3] == "") && isoDatePrefix.MatchString(parts[0])
}

func isRBCRow(parts []string) bool {
	if len(parts) <= 6 {
		return false
	}
	_, ok := parseNumber(parts[6])
	return ok && slashDatePrefix.MatchString(parts[2])
}
