package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/finsum/pkg/models"
)

// Parser turns raw bank statement exports into normalized transactions.
// It holds no per-file state and is safe for concurrent use.
type Parser struct {
	logger   *log.Logger
	location *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the time zone statement dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

func New(logger *log.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:   logger,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBytes decodes an uploaded file and parses it. Spreadsheets are
// flattened into comma separated lines first so they go through the same
// format detection as text exports.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.Transaction, error) {
	var text string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		flat, err := flattenXLS(data)
		if err != nil {
			return nil, &StatementError{FileName: filename, Err: err}
		}
		text = flat
	case ".xlsx":
		flat, err := flattenXLSX(data)
		if err != nil {
			return nil, &StatementError{FileName: filename, Err: err}
		}
		text = flat
	default:
		text = Decode(data)
	}
	p.logger.Debug("decoded statement", "filename", filename, "bytes", len(data))
	return p.ParseStatement(text, filename)
}

// ParseStatement parses the text of one statement file. An empty file yields
// no transactions and no error. A file whose format cannot be determined, or
// in which no row survives parsing, fails with a *StatementError.
func (p *Parser) ParseStatement(text, fileName string) ([]models.Transaction, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		p.logger.Debug("empty statement", "filename", fileName)
		return []models.Transaction{}, nil
	}

	format, err := Detect(lines)
	if err != nil {
		p.logger.Debug("unknown statement format", "filename", fileName, "first_line", lines[0])
		return nil, &StatementError{FileName: fileName, Err: err}
	}
	p.logger.Debug("detected statement format", "format", format, "filename", fileName)

	rows := lines
	if format == FormatRBC && hasRBCHeader(lines[0]) {
		rows = lines[1:]
	}
	parse := rowParsers[format]

	transactions := make([]models.Transaction, 0, len(rows))
	for i, line := range rows {
		row, ok := parse(splitFields(line))
		if !ok {
			p.logger.Debug("row does not fit format, skipping", "filename", fileName, "line", i, "row", line)
			continue
		}

		tx, err := normalize(row, fileName, i, p.location)
		if err != nil {
			p.logger.Warn("skipping row with invalid date", "filename", fileName, "line", i, "row", line, "err", err)
			continue
		}
		transactions = append(transactions, tx)
	}

	if len(transactions) == 0 {
		return nil, &StatementError{FileName: fileName, Format: format, Err: ErrNoTransactions}
	}

	p.logger.Info("statement parsed", "filename", fileName, "format", format, "transactions", len(transactions), "rows", len(rows))
	return transactions, nil
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitFields is a plain comma split. Quoted fields holding commas are not
// supported; see DESIGN.md.
func splitFields(line string) []string {
	return strings.Split(line, ",")
}

func (f Format) String() string {
	switch f {
	case FormatRBC:
		return "RBC"
	case FormatTD:
		return "TD"
	case FormatCIBC:
		return "CIBC"
	default:
		return fmt.Sprintf("Format(%q)", string(f))
	}
}
