package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognizedFormat means none of the format probes matched.
	ErrUnrecognizedFormat = errors.New("could not automatically determine the bank statement format")
	// ErrNoTransactions means the format was recognized but no row survived.
	ErrNoTransactions = errors.New("no valid transactions could be parsed from the file")
)

// StatementError is a file level parse failure. Row level problems never
// produce one.
type StatementError struct {
	FileName string
	// Format is empty when detection failed.
	Format Format
	Err    error
}

func (e *StatementError) Error() string {
	if errors.Is(e.Err, ErrUnrecognizedFormat) {
		return fmt.Sprintf("%s: %v (supported formats: %s)", e.FileName, e.Err, supportedFormatNames())
	}
	if e.Format != "" {
		return fmt.Sprintf("%s (%s): %v", e.FileName, e.Format, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.FileName, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

func supportedFormatNames() string {
	names := make([]string, len(SupportedFormats))
	for i, f := range SupportedFormats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
