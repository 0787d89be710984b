package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/cli"
)

var (
	areaCity     string
	areaMetros   bool
	areaHighRent bool
	areaFormat   string
)

var areaCmd = &cobra.Command{
	Use:   "area [ZIP]",
	Short: "Classify a ZIP code or list metro clusters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArea(cmd.OutOrStdout(), args)
	},
}

func runArea(w io.Writer, args []string) error {
	if err := checkFormat(areaFormat); err != nil {
		return err
	}

	env, err := initAreas()
	if err != nil {
		return err
	}

	if areaMetros || areaHighRent {
		metros := env.Classifier.Metros()
		if areaHighRent {
			metros = env.Classifier.HighRentMetros()
		}
		if areaFormat == formatJSON {
			return writeJSON(w, metros)
		}
		fmt.Fprint(w, cli.RenderMetros(metros))
		return nil
	}

	if len(args) == 0 && areaCity == "" {
		return eris.New("area: give a ZIP, --city or --metros")
	}
	zip := ""
	if len(args) == 1 {
		zip = args[0]
	}

	c := env.Classifier.Classify(zip, areaCity)
	if areaFormat == formatJSON {
		return writeJSON(w, c)
	}
	fmt.Fprint(w, cli.RenderClassification(c))
	return nil
}

func init() {
	areaCmd.Flags().StringVar(&areaCity, "city", "", "city name for the HCOL check")
	areaCmd.Flags().BoolVar(&areaMetros, "metros", false, "list all metro clusters")
	areaCmd.Flags().BoolVar(&areaHighRent, "high-rent", false, "list only high-rent metro clusters")
	areaCmd.Flags().StringVar(&areaFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(areaCmd)
}
