package budget

import (
	"fmt"
	"math"

	"github.com/sells-group/budget-cli/internal/model"
)

// Housing-share gap, in percentage points, above which the household is
// flagged as well above its area.
const significantGapPoints = 5.0

// Compare contrasts a household's monthly net income and housing cost with
// the resolved demographics of its area. Shares of a non-positive income
// are 0.
func Compare(income, housing float64, area model.AreaDemographics) model.NeighborhoodComparison {
	userPct := shareOfIncome(housing, income)
	areaPct := shareOfIncome(area.MedianMonthlyRent, area.MedianMonthlyNetIncome)

	c := model.NeighborhoodComparison{
		ZipCode:               area.ZipCode,
		UserIncome:            income,
		UserHousingCost:       housing,
		UserHousingPercentage: userPct,
		AreaIncome:            area.MedianMonthlyNetIncome,
		AreaHousingCost:       area.MedianMonthlyRent,
		AreaHousingPercentage: areaPct,
		IncomeDifference:      income - area.MedianMonthlyNetIncome,
		HousingDifference:     housing - area.MedianMonthlyRent,
		PercentageDifference:  userPct - areaPct,
	}

	if c.IncomeDifference > 0 {
		c.IncomeStatus = fmt.Sprintf("You earn %s/month more than the neighborhood median", Dollars(c.IncomeDifference))
	} else {
		c.IncomeStatus = fmt.Sprintf("You earn %s/month less than the neighborhood median", Dollars(math.Abs(c.IncomeDifference)))
	}

	if c.HousingDifference > 0 {
		c.HousingStatus = fmt.Sprintf("You spend %s more on housing than the neighborhood median", Dollars(c.HousingDifference))
	} else {
		c.HousingStatus = fmt.Sprintf("You spend %s less on housing than the neighborhood median", Dollars(math.Abs(c.HousingDifference)))
	}

	if c.PercentageDifference > 0 {
		c.PercentageStatus = fmt.Sprintf("Your housing is %.1f%% higher than the neighborhood average", c.PercentageDifference)
	} else {
		c.PercentageStatus = fmt.Sprintf("Your housing is %.1f%% lower than the neighborhood average", math.Abs(c.PercentageDifference))
	}

	switch {
	case c.PercentageDifference > significantGapPoints:
		c.Insight = model.InsightAbove
		c.InsightText = "Your housing costs are significantly higher than your neighborhood. Consider finding more affordable housing."
	case c.PercentageDifference > 0:
		c.Insight = model.InsightSlightlyAbove
		c.InsightText = "Your housing costs are slightly above the neighborhood average."
	default:
		c.Insight = model.InsightBelow
		c.InsightText = "Your housing costs are below the neighborhood average. Great job!"
	}
	return c
}

func shareOfIncome(amount, income float64) float64 {
	if !(income > 0) {
		return 0
	}
	return 100 * amount / income
}
