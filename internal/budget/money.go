package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dollars formats v as whole dollars, e.g. "$1750". Halves round away
// from zero.
func Dollars(v float64) string {
	return "$" + decimal.NewFromFloat(v).Round(0).String()
}

// Percent formats a percentage with no decimals and no sign, e.g. "40".
func Percent(p float64) string {
	return fmt.Sprintf("%.0f", p)
}

// shareOf formats fraction of income as whole dollars. The product is
// taken in decimal so 5000 * 0.35 is exactly 1750.
func shareOf(income, fraction float64) string {
	v := decimal.NewFromFloat(income).Mul(decimal.NewFromFloat(fraction))
	return "$" + v.Round(0).String()
}
