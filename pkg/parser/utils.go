package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// leadingNumber matches the numeric prefix of a field. Trailing text after the
// number is ignored, so "12.50 CAD" reads as 12.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseNumber reads the leading decimal number of s, skipping leading
// whitespace. It reports false when s does not start with a number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// TransactionID derives the stable id of a statement line from its parts
// joined with "-". The hash is a 32 bit rolling hash (h*31 + c) over UTF-16
// code units, rendered as hex of its absolute value. It must never change:
// stored transactions are matched by this id when a file is uploaded again.
func TransactionID(parts ...string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(strings.Join(parts, "-"))) {
		h = h<<5 - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return "tx-" + strconv.FormatInt(v, 16)
}

// formatAmount renders an amount the way JavaScript's Number#toString does:
// shortest round-trip digits, plain notation inside [1e-6, 1e21) and
// exponent notation ("1e-7", "1.5e+21") outside it.
func formatAmount(amount float64) string {
	if amount == 0 {
		return "0"
	}
	if abs := math.Abs(amount); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	s := strconv.FormatFloat(amount, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
