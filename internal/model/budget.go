package model

import (
	"github.com/rotisserie/eris"
)

// Tier selects which threshold table the budget rules apply.
type Tier int

const (
	TierStandard Tier = 1
	TierHCOL     Tier = 2
)

// TierFor returns the tier for an HCOL flag.
func TierFor(isHCOL bool) Tier {
	if isHCOL {
		return TierHCOL
	}
	return TierStandard
}

// BudgetInput is a single household snapshot to evaluate. All amounts are
// monthly USD.
type BudgetInput struct {
	MonthlyNetIncome float64 `json:"monthly_net_income"`

	// Essentials
	Housing        float64 `json:"housing"`
	Transportation float64 `json:"transportation"`
	CarPayment     float64 `json:"car_payment"`
	CarInsurance   float64 `json:"car_insurance"`
	CarMaintenance float64 `json:"car_maintenance"`
	Groceries      float64 `json:"groceries"`

	// Lifestyle
	Subscriptions float64 `json:"subscriptions"`
	OtherExpenses float64 `json:"other_expenses"`

	Savings float64 `json:"savings"`

	// DependentExpenses is reported but not scored by any rule.
	DependentExpenses *float64 `json:"dependent_expenses,omitempty"`

	ZipCode      string `json:"zip_code,omitempty"`
	City         string `json:"city,omitempty"`
	HCOLOverride *bool  `json:"hcol_override,omitempty"`
}

// TotalExpenses sums every category except savings.
func (in BudgetInput) TotalExpenses() float64 {
	total := in.Housing + in.Transportation + in.CarPayment + in.CarInsurance +
		in.CarMaintenance + in.Groceries + in.Subscriptions + in.OtherExpenses
	if in.DependentExpenses != nil {
		total += *in.DependentExpenses
	}
	return total
}

// Validate rejects negative expense amounts. Income is not validated here;
// a non-positive income produces a degenerate analysis instead of an error.
func (in BudgetInput) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"housing", in.Housing},
		{"transportation", in.Transportation},
		{"car_payment", in.CarPayment},
		{"car_insurance", in.CarInsurance},
		{"car_maintenance", in.CarMaintenance},
		{"groceries", in.Groceries},
		{"subscriptions", in.Subscriptions},
		{"other_expenses", in.OtherExpenses},
		{"savings", in.Savings},
	}
	for _, f := range fields {
		if f.value < 0 {
			return eris.Errorf("budget input: %s must not be negative", f.name)
		}
	}
	if in.DependentExpenses != nil && *in.DependentExpenses < 0 {
		return eris.New("budget input: dependent_expenses must not be negative")
	}
	return nil
}

// BudgetRule is the verdict of one named rule for one evaluation.
type BudgetRule struct {
	Name              string  `json:"name"`
	CurrentPercentage float64 `json:"current_percentage"`
	TargetPercentage  float64 `json:"target_percentage"`
	IsBreached        bool    `json:"is_breached"`
	IsWarning         bool    `json:"is_warning"`
	Tier              Tier    `json:"tier"`
	Suggestion        string  `json:"suggestion"`
}

// BudgetAnalysisResult aggregates all rule verdicts for one evaluation.
type BudgetAnalysisResult struct {
	Rules         []BudgetRule `json:"rules"`
	BreachedRules []BudgetRule `json:"breached_rules"`
	OverallScore  float64      `json:"overall_score"` // 0-100
	Summary       string       `json:"summary"`
	Tier          Tier         `json:"tier"`
	IsHCOL        bool         `json:"is_hcol"`
}
