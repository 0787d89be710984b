package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/cli"
	"github.com/sells-group/budget-cli/internal/model"
)

var (
	analyzeInput   budget.RawInput
	analyzeFormat  string
	analyzeCompare bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a monthly budget against the spending guidelines",
	Long:  "Evaluates income and monthly expenses against the seven budget rules. The HCOL tier comes from --hcol, or from --zip/--city when --hcol is auto.",
	Example: `  budget-cli analyze --income 5000 --housing 1250 --groceries 450 --transportation 300 --savings 1000
  budget-cli analyze --income 8000 --housing 2600 --zip 10003 --compare --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), cmd.OutOrStdout())
	},
}

type analyzeOutput struct {
	Analysis   model.BudgetAnalysisResult    `json:"analysis"`
	Comparison *model.NeighborhoodComparison `json:"comparison,omitempty"`
}

func runAnalyze(ctx context.Context, w io.Writer) error {
	if err := checkFormat(analyzeFormat); err != nil {
		return err
	}
	in, err := budget.ParseInput(analyzeInput)
	if err != nil {
		return err
	}

	areas, err := initAreas()
	if err != nil {
		return err
	}
	out := analyzeOutput{Analysis: areas.Engine.Evaluate(in)}

	if analyzeCompare && in.ZipCode != "" && in.MonthlyNetIncome > 0 {
		env, err := initResolver(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		c := budget.Compare(in.MonthlyNetIncome, in.Housing, env.Resolver.Resolve(ctx, in.ZipCode))
		out.Comparison = &c
	}

	if analyzeFormat == formatJSON {
		return writeJSON(w, out)
	}
	fmt.Fprint(w, cli.RenderAnalysis(out.Analysis))
	if out.Comparison != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, cli.RenderComparison(*out.Comparison))
	}
	return nil
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeInput.MonthlyNetIncome, "income", "", "monthly net (take-home) income")
	f.StringVar(&analyzeInput.Housing, "housing", "", "rent or mortgage")
	f.StringVar(&analyzeInput.Transportation, "transportation", "", "transit, fuel, parking")
	f.StringVar(&analyzeInput.CarPayment, "car-payment", "", "car loan or lease payment")
	f.StringVar(&analyzeInput.CarInsurance, "car-insurance", "", "car insurance")
	f.StringVar(&analyzeInput.CarMaintenance, "car-maintenance", "", "car maintenance")
	f.StringVar(&analyzeInput.Groceries, "groceries", "", "groceries")
	f.StringVar(&analyzeInput.Subscriptions, "subscriptions", "", "subscriptions")
	f.StringVar(&analyzeInput.OtherExpenses, "other", "", "other discretionary spending")
	f.StringVar(&analyzeInput.Savings, "savings", "", "monthly savings")
	f.StringVar(&analyzeInput.DependentExpenses, "dependents", "", "dependent care (reported, not scored)")
	f.StringVar(&analyzeInput.ZipCode, "zip", "", "home ZIP code")
	f.StringVar(&analyzeInput.City, "city", "", "home city")
	f.StringVar(&analyzeInput.HCOL, "hcol", "auto", "high-cost-of-living tier: auto, true or false")
	f.StringVar(&analyzeFormat, "format", formatTable, "output format: table or json")
	f.BoolVar(&analyzeCompare, "compare", false, "also compare housing with the --zip area demographics")
	rootCmd.AddCommand(analyzeCmd)
}
