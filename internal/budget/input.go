package budget

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/budget-cli/internal/model"
)

// RawInput is a budget as typed by a user: every amount is free text.
type RawInput struct {
	MonthlyNetIncome  string
	Housing           string
	Transportation    string
	CarPayment        string
	CarInsurance      string
	CarMaintenance    string
	Groceries         string
	Subscriptions     string
	OtherExpenses     string
	Savings           string
	DependentExpenses string

	ZipCode string
	City    string

	// HCOL is "", "auto", "true" or "false".
	HCOL string
}

// FieldErrors collects per-field validation messages keyed by the field's
// JSON name.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// Error lists every field in name order.
func (e *FieldErrors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "budget input: " + strings.Join(parts, "; ")
}

var (
	errNotANumber = eris.New("not a number")
	errNegative   = eris.New("must not be negative")
)

// ParseAmount parses a dollar amount. Blank means 0; a leading "$" and
// thousands separators are accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errNotANumber
	}
	if d.IsNegative() {
		return 0, errNegative
	}
	return d.InexactFloat64(), nil
}

// ParseHCOL parses an HCOL override. Blank or "auto" means no override.
func ParseHCOL(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return nil, nil
	case "true", "yes", "1":
		v := true
		return &v, nil
	case "false", "no", "0":
		v := false
		return &v, nil
	default:
		return nil, eris.Errorf("budget: invalid hcol override %q (want auto, true or false)", s)
	}
}

// ParseInput converts raw into a BudgetInput. Blank expenses are 0;
// negative or unparseable expenses are reported together as *FieldErrors.
// An unusable income is not a field error: it parses to 0 and Evaluate
// returns the invalid-income result.
func ParseInput(raw RawInput) (model.BudgetInput, error) {
	in := model.BudgetInput{
		ZipCode: strings.TrimSpace(raw.ZipCode),
		City:    strings.TrimSpace(raw.City),
	}
	if income, err := ParseAmount(raw.MonthlyNetIncome); err == nil {
		in.MonthlyNetIncome = income
	}

	fe := &FieldErrors{}
	amounts := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"housing", raw.Housing, &in.Housing},
		{"transportation", raw.Transportation, &in.Transportation},
		{"car_payment", raw.CarPayment, &in.CarPayment},
		{"car_insurance", raw.CarInsurance, &in.CarInsurance},
		{"car_maintenance", raw.CarMaintenance, &in.CarMaintenance},
		{"groceries", raw.Groceries, &in.Groceries},
		{"subscriptions", raw.Subscriptions, &in.Subscriptions},
		{"other_expenses", raw.OtherExpenses, &in.OtherExpenses},
		{"savings", raw.Savings, &in.Savings},
	}
	for _, a := range amounts {
		v, err := ParseAmount(a.raw)
		if err != nil {
			fe.add(a.name, err.Error())
			continue
		}
		*a.dst = v
	}

	if strings.TrimSpace(raw.DependentExpenses) != "" {
		v, err := ParseAmount(raw.DependentExpenses)
		if err != nil {
			fe.add("dependent_expenses", err.Error())
		} else {
			in.DependentExpenses = &v
		}
	}

	override, err := ParseHCOL(raw.HCOL)
	if err != nil {
		fe.add("hcol", "want auto, true or false")
	}
	in.HCOLOverride = override

	if len(fe.Fields) > 0 {
		return in, fe
	}
	return in, nil
}
