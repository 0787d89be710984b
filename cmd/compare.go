package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/cli"
)

var (
	compareIncome  string
	compareHousing string
	compareFormat  string
)

var compareCmd = &cobra.Command{
	Use:   "compare ZIP",
	Short: "Compare housing spend with the area median rent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func runCompare(ctx context.Context, w io.Writer, zip string) error {
	if err := checkFormat(compareFormat); err != nil {
		return err
	}
	income, err := budget.ParseAmount(compareIncome)
	if err != nil {
		return eris.Wrap(err, "compare: --income")
	}
	if income <= 0 {
		return eris.New("compare: --income must be a positive amount")
	}
	housing, err := budget.ParseAmount(compareHousing)
	if err != nil {
		return eris.Wrap(err, "compare: --housing")
	}

	env, err := initResolver(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	c := budget.Compare(income, housing, env.Resolver.Resolve(ctx, zip))
	if compareFormat == formatJSON {
		return writeJSON(w, c)
	}
	fmt.Fprint(w, cli.RenderComparison(c))
	return nil
}

func init() {
	compareCmd.Flags().StringVar(&compareIncome, "income", "", "monthly net income (required)")
	compareCmd.Flags().StringVar(&compareHousing, "housing", "", "monthly housing cost")
	compareCmd.Flags().StringVar(&compareFormat, "format", formatTable, "output format: table or json")
	_ = compareCmd.MarkFlagRequired("income")
	rootCmd.AddCommand(compareCmd)
}
