package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/budget-cli/internal/area"
	"github.com/sells-group/budget-cli/internal/model"
)

// Palette
var (
	ColorBorder = lipgloss.Color("#575653")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorMuted  = lipgloss.Color("#6F6E69")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	okStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	breachStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)

// Table is a bordered text table.
type Table struct {
	Headers []string
	Rows    [][]string
	// Style, when set, picks the style of a body cell. Widths are measured
	// on the unstyled text.
	Style func(row, col int) lipgloss.Style
}

// RenderTitle renders a title in a rounded box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

// RenderTable renders t with box-drawing borders. The first column is
// left-aligned, the rest right-aligned.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(borderStyle.Render(left))
		for i, w := range widths {
			b.WriteString(borderStyle.Render(strings.Repeat("─", w+2)))
			if i < cols-1 {
				b.WriteString(borderStyle.Render(mid))
			}
		}
		b.WriteString(borderStyle.Render(right))
		b.WriteByte('\n')
	}
	line := func(cells []string, style func(col int) lipgloss.Style) {
		b.WriteString(borderStyle.Render("│"))
		for i := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			var padded string
			if i == 0 {
				padded = " " + cell + strings.Repeat(" ", pad) + " "
			} else {
				padded = " " + strings.Repeat(" ", pad) + cell + " "
			}
			b.WriteString(style(i).Render(padded))
			b.WriteString(borderStyle.Render("│"))
		}
		b.WriteByte('\n')
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, func(int) lipgloss.Style { return headerStyle })
		rule("├", "┼", "┤")
	}
	for r, row := range t.Rows {
		line(row, func(c int) lipgloss.Style {
			if t.Style != nil {
				return t.Style(r, c)
			}
			return valueStyle
		})
	}
	rule("╰", "┴", "╯")
	return b.String()
}

func ruleStatus(r model.BudgetRule) string {
	switch {
	case r.IsBreached:
		return "BREACH"
	case r.IsWarning:
		return "WARN"
	default:
		return "OK"
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "BREACH":
		return breachStyle
	case "WARN":
		return warnStyle
	default:
		return okStyle
	}
}

// RenderAnalysis renders a budget analysis: score, rule table, suggestions.
func RenderAnalysis(res model.BudgetAnalysisResult) string {
	var b strings.Builder

	tier := "Standard"
	if res.IsHCOL {
		tier = "High-Cost Area"
	}
	b.WriteString(RenderTitle(fmt.Sprintf("BUDGET ANALYSIS  %.0f/100  %s", res.OverallScore, tier)))
	b.WriteString("\n\n")
	b.WriteString(res.Summary)
	b.WriteString("\n\n")

	if len(res.Rules) == 0 {
		return b.String()
	}

	rows := make([][]string, len(res.Rules))
	for i, r := range res.Rules {
		rows[i] = []string{r.Name, FormatPct(r.CurrentPercentage), FormatPct(r.TargetPercentage), ruleStatus(r)}
	}
	b.WriteString(RenderTable(Table{
		Headers: []string{"Rule", "Current", "Target", "Status"},
		Rows:    rows,
		Style: func(row, col int) lipgloss.Style {
			if col == 3 {
				return statusStyle(rows[row][3])
			}
			return valueStyle
		},
	}))

	b.WriteString("\n")
	for _, r := range res.Rules {
		status := ruleStatus(r)
		b.WriteString(statusStyle(status).Render(fmt.Sprintf("%-6s", status)))
		b.WriteString(" ")
		b.WriteString(r.Suggestion)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDemographics renders one row per resolved ZIP code.
func RenderDemographics(items []model.AreaDemographics) string {
	rows := make([][]string, len(items))
	for i, d := range items {
		rows[i] = []string{
			d.ZipCode,
			FormatUSD(d.MedianMonthlyNetIncome),
			FormatUSD(d.MedianMonthlyRent),
			FormatPct(d.RentPercentileVsNational),
			fmt.Sprintf("%.0f", d.CostOfLivingIndex),
			FormatNumber(int64(d.PopulationDensity)),
			string(d.Source),
		}
	}
	return RenderTable(Table{
		Headers: []string{"ZIP", "Net Income/mo", "Rent/mo", "Rent Pctl", "COL", "Density", "Source"},
		Rows:    rows,
		Style: func(row, col int) lipgloss.Style {
			if col == 6 && items[row].Source == model.SourceEstimate {
				return warnStyle
			}
			return valueStyle
		},
	})
}

// RenderComparison renders a household-versus-area comparison.
func RenderComparison(c model.NeighborhoodComparison) string {
	var b strings.Builder
	b.WriteString(RenderTitle("NEIGHBORHOOD COMPARISON  " + c.ZipCode))
	b.WriteString("\n\n")
	b.WriteString(RenderTable(Table{
		Headers: []string{"", "You", "Area"},
		Rows: [][]string{
			{"Net income/mo", FormatUSD(c.UserIncome), FormatUSD(c.AreaIncome)},
			{"Housing/mo", FormatUSD(c.UserHousingCost), FormatUSD(c.AreaHousingCost)},
			{"Housing share", FormatPct(c.UserHousingPercentage), FormatPct(c.AreaHousingPercentage)},
		},
	}))
	b.WriteString("\n")
	for _, s := range []string{c.IncomeStatus, c.HousingStatus, c.PercentageStatus} {
		b.WriteString(mutedStyle.Render("• "))
		b.WriteString(s)
		b.WriteString("\n")
	}

	style := okStyle
	switch c.Insight {
	case model.InsightAbove:
		style = breachStyle
	case model.InsightSlightlyAbove:
		style = warnStyle
	}
	b.WriteString("\n")
	b.WriteString(style.Render(c.InsightText))
	b.WriteString("\n")
	return b.String()
}

// RenderClassification renders the area view of one ZIP code.
func RenderClassification(c area.Classification) string {
	place := c.City
	if c.State != "" {
		place += ", " + c.State
	}
	if place == "" {
		place = "unknown"
	}
	metro := c.Metro
	if metro == "" {
		metro = "-"
	}
	hcol := "no"
	if c.IsHCOL {
		hcol = "yes"
	}
	highRent := "no"
	if c.HighRent {
		highRent = "yes"
	}

	return RenderTable(Table{
		Headers: []string{"ZIP " + c.ZipCode, ""},
		Rows: [][]string{
			{"Place", place},
			{"High cost of living", hcol},
			{"Tier", fmt.Sprintf("%d", c.Tier)},
			{"Metro", metro},
			{"High-rent metro", highRent},
		},
	})
}

// RenderMetros renders the metro clusters, one row each.
func RenderMetros(metros []area.Metro) string {
	rows := make([][]string, len(metros))
	for i, m := range metros {
		rows[i] = []string{
			m.Name,
			FormatUSD(m.AverageRent),
			FormatUSD(m.AverageIncome),
			fmt.Sprintf("%.0f", m.RentPercentile),
			FormatNumber(int64(len(m.Zips))),
		}
	}
	return RenderTable(Table{
		Headers: []string{"Metro", "Avg Rent", "Avg Income", "Rent Pctl", "ZIPs"},
		Rows:    rows,
		Style: func(row, col int) lipgloss.Style {
			if col == 3 && metros[row].RentPercentile >= area.HighRentPercentile {
				return warnStyle
			}
			return valueStyle
		},
	})
}
