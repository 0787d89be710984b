package budget

import "fmt"

const hcolLabel = " (High-Cost Area)"

func summarize(breached int, hcol bool) string {
	label := ""
	if hcol {
		label = hcolLabel
	}

	switch {
	case breached == 0:
		return fmt.Sprintf("Excellent! Your budget is perfectly aligned with all financial guidelines%s. Keep up the great work!", label)
	case breached <= 2:
		return fmt.Sprintf("Good progress! You're following most guidelines%s. Focus on the %d area(s) that need adjustment.", label, breached)
	default:
		return fmt.Sprintf("Your budget needs attention in %d areas%s. Review the suggestions below to get back on track.", breached, label)
	}
}
