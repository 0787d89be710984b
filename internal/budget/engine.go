// Package budget scores a household's monthly budget against tiered
// spending guidelines.
package budget

import (
	"github.com/sells-group/budget-cli/internal/model"
)

// InvalidIncomeSummary is the summary of an analysis whose income is not
// positive.
const InvalidIncomeSummary = "Please enter a valid monthly net income."

// Classifier decides whether a location is a high-cost-of-living area.
// *area.Classifier satisfies it.
type Classifier interface {
	IsHCOLArea(zip, city string) bool
}

// Engine evaluates budgets. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	classifier Classifier
}

// NewEngine creates an Engine. A nil classifier treats every location as
// standard cost unless the input carries an override.
func NewEngine(classifier Classifier) *Engine {
	return &Engine{classifier: classifier}
}

// IsHCOL resolves the tier flag for in: the override when set, otherwise
// the classifier's verdict for the input's ZIP and city.
func (e *Engine) IsHCOL(in model.BudgetInput) bool {
	if in.HCOLOverride != nil {
		return *in.HCOLOverride
	}
	if e.classifier == nil {
		return false
	}
	return e.classifier.IsHCOLArea(in.ZipCode, in.City)
}

// Evaluate scores in against every rule. A non-positive income yields an
// empty, zero-score result with an explanatory summary.
func (e *Engine) Evaluate(in model.BudgetInput) model.BudgetAnalysisResult {
	if !(in.MonthlyNetIncome > 0) {
		return model.BudgetAnalysisResult{
			Rules:         []model.BudgetRule{},
			BreachedRules: []model.BudgetRule{},
			Summary:       InvalidIncomeSummary,
			Tier:          model.TierStandard,
		}
	}

	hcol := e.IsHCOL(in)
	rules := newEvaluation(in, hcol).rules()

	breached := make([]model.BudgetRule, 0, len(rules))
	for _, r := range rules {
		if r.IsBreached {
			breached = append(breached, r)
		}
	}

	return model.BudgetAnalysisResult{
		Rules:         rules,
		BreachedRules: breached,
		OverallScore:  float64(len(rules)-len(breached)) / float64(len(rules)) * 100,
		Summary:       summarize(len(breached), hcol),
		Tier:          model.TierFor(hcol),
		IsHCOL:        hcol,
	}
}
