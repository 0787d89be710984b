package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/cli"
)

var (
	demographicsFile   string
	demographicsFormat string
)

var demographicsCmd = &cobra.Command{
	Use:   "demographics [ZIP...]",
	Short: "Resolve area demographics for ZIP codes",
	Long:  "Fetches Census ACS income, rent and population for each ZIP and its neighbors, applies consensus correction, and falls back to a deterministic estimate when no data is available. ZIPs come from arguments and/or --file (\"-\" reads stdin).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemographics(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args)
	},
}

func runDemographics(ctx context.Context, stdin io.Reader, w io.Writer, args []string) error {
	if err := checkFormat(demographicsFormat); err != nil {
		return err
	}

	zips, err := collectZips(stdin, args)
	if err != nil {
		return err
	}
	if len(zips) == 0 {
		return eris.New("demographics: no ZIP codes given")
	}

	env, err := initResolver(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	results := env.Resolver.ResolveMany(ctx, zips, cfg.Resolver.MaxConcurrentZips)
	zap.L().Info("demographics resolved", zap.Int("zips", len(results)))

	if demographicsFormat == formatJSON {
		return writeJSON(w, results)
	}
	fmt.Fprint(w, cli.RenderDemographics(results))
	return nil
}

// collectZips merges args with the --file list, trimming entries and
// dropping blanks and repeats.
func collectZips(stdin io.Reader, args []string) ([]string, error) {
	zips := slices.Clone(args)

	if demographicsFile != "" {
		var r io.Reader = stdin
		if demographicsFile != "-" {
			f, err := os.Open(demographicsFile)
			if err != nil {
				return nil, eris.Wrap(err, "demographics: open zip file")
			}
			defer f.Close() //nolint:errcheck
			r = f
		}
		fromFile, err := readZipList(r)
		if err != nil {
			return nil, err
		}
		zips = append(zips, fromFile...)
	}

	seen := make(map[string]bool, len(zips))
	out := zips[:0]
	for _, z := range zips {
		z = strings.TrimSpace(z)
		if z == "" || seen[z] {
			continue
		}
		seen[z] = true
		out = append(out, z)
	}
	return out, nil
}

func init() {
	demographicsCmd.Flags().StringVar(&demographicsFile, "file", "", "file with one ZIP per line (- for stdin)")
	demographicsCmd.Flags().StringVar(&demographicsFormat, "format", formatTable, "output format: table or json")
	rootCmd.AddCommand(demographicsCmd)
}
