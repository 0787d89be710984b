// Package cli renders budget analyses and area data for the terminal.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatUSD formats whole dollars with separators, e.g. "$4,958".
func FormatUSD(v float64) string {
	r := int64(math.Round(v))
	if r < 0 {
		return "-$" + FormatNumber(-r)
	}
	return "$" + FormatNumber(r)
}

// FormatPct formats a 0-100 percentage with one decimal.
func FormatPct(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
