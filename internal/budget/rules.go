package budget

import (
	"fmt"

	"github.com/sells-group/budget-cli/internal/model"
)

// Rule names in evaluation order.
const (
	RuleNeeds         = "Needs Budget"
	RuleWants         = "Wants Budget"
	RuleSavings       = "Savings Target"
	RuleHousing       = "Housing Max"
	RuleCarPayment    = "Car Payment Max"
	RuleCarTotal      = "Total Car Cost Max"
	RuleAnnualSavings = "Annual Savings Target"
)

// RuleNames lists every rule in the order Evaluate reports them.
var RuleNames = []string{
	RuleNeeds, RuleWants, RuleSavings, RuleHousing,
	RuleCarPayment, RuleCarTotal, RuleAnnualSavings,
}

// Thresholds, as percentages of monthly net income.
const (
	needsTarget        = 50.0
	needsWarnCeiling   = 51.0
	hcolNeedsTarget    = 55.0
	hcolNeedsCeiling   = 60.0
	wantsTarget        = 30.0
	elevatedWantsLimit = 20.0
	savingsTarget      = 20.0
	housingTarget      = 25.0
	hcolHousingTarget  = 30.0
	hcolHousingMax     = 35.0
	carPaymentTarget   = 10.0
	carPaymentCeiling  = 11.0
	carTotalTarget     = 15.0
	carTotalCeiling    = 16.0
	annualSavingsGoal  = 15.0
	annualSavingsFloor = 14.0
)

// evaluation holds one input's category shares of income, in percent.
type evaluation struct {
	income float64
	hcol   bool
	tier   model.Tier

	needs      float64
	wants      float64
	savings    float64
	housing    float64
	carPayment float64
	carTotal   float64
}

func newEvaluation(in model.BudgetInput, hcol bool) evaluation {
	pct := func(amount float64) float64 {
		return 100 * amount / in.MonthlyNetIncome
	}
	return evaluation{
		income:     in.MonthlyNetIncome,
		hcol:       hcol,
		tier:       model.TierFor(hcol),
		needs:      pct(in.Housing + in.Groceries + in.Transportation),
		wants:      pct(in.Subscriptions + in.OtherExpenses),
		savings:    pct(in.Savings),
		housing:    pct(in.Housing),
		carPayment: pct(in.CarPayment),
		carTotal:   pct(in.CarPayment + in.CarInsurance + in.CarMaintenance),
	}
}

// rules returns every verdict in display order. The Wants and Savings
// rules read the Needs verdict, so Needs is always evaluated first; a new
// rule that depends on another must be built after it here.
func (ev evaluation) rules() []model.BudgetRule {
	needs := ev.needsRule()
	return []model.BudgetRule{
		needs,
		ev.wantsRule(needs),
		ev.savingsRule(needs),
		ev.housingRule(),
		ev.carPaymentRule(),
		ev.carTotalRule(),
		ev.annualSavingsRule(),
	}
}

func (ev evaluation) rule(name string, current, target float64, breached, warning bool, suggestion string) model.BudgetRule {
	return model.BudgetRule{
		Name:              name,
		CurrentPercentage: current,
		TargetPercentage:  target,
		IsBreached:        breached,
		IsWarning:         warning,
		Tier:              ev.tier,
		Suggestion:        suggestion,
	}
}

// elevatedNeeds reports an HCOL household whose needs exceed the HCOL
// target; its Wants allowance shrinks to protect savings.
func (ev evaluation) elevatedNeeds(needs model.BudgetRule) bool {
	return ev.hcol && needs.CurrentPercentage > hcolNeedsTarget
}

func (ev evaluation) needsRule() model.BudgetRule {
	p := ev.needs
	pt := Percent(p)

	if ev.hcol {
		var s string
		switch {
		case p <= hcolNeedsTarget:
			s = fmt.Sprintf("Your Needs are %s%% of NMI, which is acceptable for a high-cost area. Try to keep this under 55%% if possible.", pt)
		case p <= hcolNeedsCeiling:
			s = fmt.Sprintf("Your Needs are %s%% of NMI, which is high for a major metropolitan area. To maintain a 20%% savings rate, your Lifestyle (Wants) spending must be strictly limited to 20%% of NMI.", pt)
		default:
			s = "Your Needs exceed 60% of NMI, which is unsustainable even for high-cost areas. You must reduce essential expenses or increase income to maintain adequate savings."
		}
		return ev.rule(RuleNeeds, p, hcolNeedsTarget,
			p > hcolNeedsCeiling, p > hcolNeedsTarget && p <= hcolNeedsCeiling, s)
	}

	breached := p > needsWarnCeiling
	s := fmt.Sprintf("Your Needs are %s%% of NMI, which is within the recommended 50%% target. Great job!", pt)
	if breached {
		s = fmt.Sprintf("Your Needs are %s%% of NMI, which is high. Try to reduce essential expenses to the recommended 50%%. Focus on Housing, Groceries, and Transportation.", pt)
	}
	return ev.rule(RuleNeeds, p, needsTarget, breached, p > needsTarget && p <= needsWarnCeiling, s)
}

func (ev evaluation) wantsRule(needs model.BudgetRule) model.BudgetRule {
	p := ev.wants
	pt := Percent(p)

	if ev.elevatedNeeds(needs) {
		breached := p > elevatedWantsLimit
		s := fmt.Sprintf("Your Wants are %s%% of NMI, which appropriately accommodates your higher housing costs while maintaining savings.", pt)
		if breached {
			s = fmt.Sprintf("Your Wants are %s%% of NMI. Since your Needs are elevated, you must strictly limit Wants to 20%% to preserve the 20%% minimum savings rate.", pt)
		}
		return ev.rule(RuleWants, p, elevatedWantsLimit, breached, false, s)
	}

	breached := p > wantsTarget
	s := fmt.Sprintf("Your Wants are %s%% of NMI, which is within the recommended 30%% target. Excellent!", pt)
	if breached {
		s = fmt.Sprintf("Your Wants are %s%% of NMI, which exceeds the recommended 30%%. Consider reducing Subscriptions or Other Expenses.", pt)
	}
	return ev.rule(RuleWants, p, wantsTarget, breached, false, s)
}

func (ev evaluation) savingsRule(needs model.BudgetRule) model.BudgetRule {
	p := ev.savings
	pt := Percent(p)
	breached := p < savingsTarget
	goal := shareOf(ev.income, savingsTarget/100)

	var s string
	switch {
	case ev.elevatedNeeds(needs) && breached:
		s = fmt.Sprintf("Your Savings are %s%% of NMI. Given your elevated housing costs, you must prioritize reaching 20%% savings (%s) by reducing Wants.", pt, goal)
	case ev.elevatedNeeds(needs):
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which maintains the critical 20%% minimum despite higher housing costs. Excellent!", pt)
	case breached:
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which is below the recommended 20%%. Try to increase your monthly savings to %s.", pt, goal)
	default:
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which meets the recommended 20%% target. Outstanding!", pt)
	}
	return ev.rule(RuleSavings, p, savingsTarget, breached, false, s)
}

func (ev evaluation) housingRule() model.BudgetRule {
	p := ev.housing
	pt := Percent(p)

	if ev.hcol {
		var s string
		switch {
		case p <= hcolHousingTarget:
			s = fmt.Sprintf("Your Housing is %s%% of NMI, which is ideal for a high-cost area. Excellent!", pt)
		case p <= hcolHousingMax:
			s = fmt.Sprintf("Your Housing is %s%% of NMI, which is acceptable for a major metropolitan area but at the upper limit. Consider if you can reduce to 30%%.", pt)
		default:
			s = fmt.Sprintf("Your Housing is %s%% of NMI, which exceeds the acceptable range even for high-cost areas. You must reduce housing costs to %s or less.",
				pt, shareOf(ev.income, hcolHousingMax/100))
		}
		return ev.rule(RuleHousing, p, hcolHousingTarget,
			p > hcolHousingMax, p > hcolHousingTarget && p <= hcolHousingMax, s)
	}

	breached := p > housingTarget
	s := fmt.Sprintf("Your Housing is %s%% of NMI, which is within the recommended 25%% target. Perfect!", pt)
	if breached {
		s = fmt.Sprintf("Your Housing is %s%% of NMI, which is high. Try to reduce this cost to the recommended 25%% or %s.",
			pt, shareOf(ev.income, housingTarget/100))
	}
	return ev.rule(RuleHousing, p, housingTarget, breached, false, s)
}

func (ev evaluation) carPaymentRule() model.BudgetRule {
	p := ev.carPayment
	pt := Percent(p)
	breached := p > carPaymentCeiling
	warning := p > carPaymentTarget && !breached

	var s string
	switch {
	case breached:
		s = fmt.Sprintf("Your Car Payment is %s%% of NMI, which exceeds the recommended 10%%. Consider refinancing or choosing a less expensive vehicle.", pt)
	case warning:
		s = fmt.Sprintf("Your Car Payment is %s%% of NMI, which is slightly above the recommended 10%%. This needs work. Consider refinancing to lower your monthly payment.", pt)
	default:
		s = fmt.Sprintf("Your Car Payment is %s%% of NMI, which is within the recommended 10%% target. Good!", pt)
	}
	return ev.rule(RuleCarPayment, p, carPaymentTarget, breached, warning, s)
}

func (ev evaluation) carTotalRule() model.BudgetRule {
	p := ev.carTotal
	pt := Percent(p)
	breached := p > carTotalCeiling
	warning := p > carTotalTarget && !breached

	var s string
	switch {
	case breached:
		s = fmt.Sprintf("Your Total Car Costs (payment, insurance and maintenance) are %s%% of NMI, which exceeds the recommended 15%%. Try to reduce your car payment or running costs.", pt)
	case warning:
		s = fmt.Sprintf("Your Total Car Costs are %s%% of NMI, which is slightly above the recommended 15%%. This needs work. Consider reducing insurance, maintenance or car payment expenses.", pt)
	default:
		s = fmt.Sprintf("Your Total Car Costs are %s%% of NMI, which is within the recommended 15%% target. Excellent!", pt)
	}
	return ev.rule(RuleCarTotal, p, carTotalTarget, breached, warning, s)
}

func (ev evaluation) annualSavingsRule() model.BudgetRule {
	p := ev.savings
	pt := Percent(p)
	breached := p < annualSavingsFloor
	warning := !breached && p < annualSavingsGoal
	goal := shareOf(ev.income, annualSavingsGoal/100)

	var s string
	switch {
	case breached:
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which is below the recommended 15%% for long-term goals. Aim to save at least %s monthly.", pt, goal)
	case warning:
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which is close to the 15%% target. This needs work. Try to reach %s monthly.", pt, goal)
	default:
		s = fmt.Sprintf("Your Savings are %s%% of NMI, which meets the recommended 15%% annual savings target. Great!", pt)
	}
	return ev.rule(RuleAnnualSavings, p, annualSavingsGoal, breached, warning, s)
}
