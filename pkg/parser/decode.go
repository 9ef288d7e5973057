package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Decode returns the text of an uploaded file. Valid UTF-8 is kept as is
// (minus a byte order mark); anything else is read as Windows-1252, which is
// what most banks export.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\uFEFF")
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return string(data)
	}
	return string(out)
}
