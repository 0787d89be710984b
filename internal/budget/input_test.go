package budget

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr error
	}{
		{name: "blank", in: "", want: 0},
		{name: "spaces", in: "   ", want: 0},
		{name: "plain", in: "1250", want: 1250},
		{name: "cents", in: "19.99", want: 19.99},
		{name: "dollar sign and commas", in: " $1,250.50 ", want: 1250.5},
		{name: "exponent", in: "1e3", want: 1000},
		{name: "negative", in: "-5", wantErr: errNegative},
		{name: "words", in: "abc", wantErr: errNotANumber},
		{name: "lone dollar sign", in: "$", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseHCOL(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "auto", " AUTO "} {
		v, err := ParseHCOL(s)
		require.NoError(t, err)
		assert.Nil(t, v, s)
	}

	v, err := ParseHCOL("TRUE")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = ParseHCOL("no")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = ParseHCOL("maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hcol override")
}

func TestParseInput_BlankIsZero(t *testing.T) {
	t.Parallel()

	in, err := ParseInput(RawInput{MonthlyNetIncome: "5000", ZipCode: " 10003 "})
	require.NoError(t, err)
	assert.InDelta(t, 5000, in.MonthlyNetIncome, 1e-9)
	assert.Zero(t, in.TotalExpenses())
	assert.Equal(t, "10003", in.ZipCode)
	assert.Nil(t, in.DependentExpenses)
	assert.Nil(t, in.HCOLOverride)
}

func TestParseInput_FieldErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseInput(RawInput{
		MonthlyNetIncome: "5000",
		Housing:          "-100",
		Groceries:        "lots",
		Savings:          "300",
		HCOL:             "sometimes",
	})
	require.Error(t, err)

	var fe *FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, map[string]string{
		"housing":   "must not be negative",
		"groceries": "not a number",
		"hcol":      "want auto, true or false",
	}, fe.Fields)
	assert.Equal(t, "budget input: groceries: not a number; hcol: want auto, true or false; housing: must not be negative", err.Error())
}

func TestParseInput_BadIncomeIsNotAFieldError(t *testing.T) {
	t.Parallel()

	in, err := ParseInput(RawInput{MonthlyNetIncome: "a lot", Housing: "1000"})
	require.NoError(t, err)
	assert.Zero(t, in.MonthlyNetIncome)

	res := NewEngine(nil).Evaluate(in)
	assert.Equal(t, InvalidIncomeSummary, res.Summary)
	assert.Empty(t, res.Rules)
}

func TestParseInput_DependentsAndOverride(t *testing.T) {
	t.Parallel()

	in, err := ParseInput(RawInput{
		MonthlyNetIncome:  "6000",
		Housing:           "2000",
		CarPayment:        "400",
		DependentExpenses: "250",
		HCOL:              "true",
	})
	require.NoError(t, err)
	require.NotNil(t, in.DependentExpenses)
	assert.InDelta(t, 250, *in.DependentExpenses, 1e-9)
	assert.InDelta(t, 2650, in.TotalExpenses(), 1e-9)
	require.NotNil(t, in.HCOLOverride)
	assert.True(t, *in.HCOLOverride)
	assert.NoError(t, in.Validate())
}
