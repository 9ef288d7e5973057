package report

import (
	"encoding/json"
	"io"

	"github.com/k0kubun/pp/v3"
)

// Dump pretty prints any value for debugging.
func Dump(w io.Writer, v any, color bool) error {
	printer := pp.New()
	printer.SetColoringEnabled(color)
	_, err := printer.Fprintln(w, v)
	return err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
