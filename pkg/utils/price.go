package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice strips every character that is not a digit or a decimal point
// and parses the rest. Text without digits, or with an unparseable remainder
// such as "1.2.3", reports ok=false rather than zero.
func ParsePrice(text string) (decimal.Decimal, bool) {
	var b strings.Builder
	digits := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		}
	}
	if !digits {
		return decimal.Zero, false
	}
	cleaned := strings.TrimRight(b.String(), ".")
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
