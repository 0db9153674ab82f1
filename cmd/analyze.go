package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/flipforge/dealshield/internal/workbench"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a manual analysis without a draft",
	Long: `Run the manual analysis with explicit numbers. Unset values come from the
defaults section of the config. A rent of 0 is sent as unknown.

Example:
  dealshield analyze --purchase-price 150000 --arv 240000 --rehab 20000 --out result.json`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Float64("purchase-price", 0, "purchase price (default from config)")
	f.Float64("arv", 0, "after-repair value (default from config)")
	f.Float64("rehab", 0, "rehab budget (default from config)")
	f.Float64("rent", 0, "estimated monthly rent (default from config, 0 for unknown)")
	f.String("out", "", "write the result and export meta to this file")
	addFinancingFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in := manualInput(cmd)
	outPath, _ := cmd.Flags().GetString("out")

	w := newWorkbench(cmd)
	res, err := w.AnalyzeManual(ctx, in)
	if err != nil {
		return eris.Wrap(err, "analyze")
	}

	out := cmd.OutOrStdout()
	printResult(out, res)

	if outPath != "" {
		if err := saveDoc(outPath, resultFile{Result: res, Meta: w.Meta()}); err != nil {
			return eris.Wrap(err, "analyze: save result")
		}
		fmt.Fprintf(out, "Result saved to %s\n", outPath)
	}
	return nil
}

// manualInput merges flag values over the configured form defaults.
func manualInput(cmd *cobra.Command) workbench.ManualInput {
	f := cmd.Flags()
	pick := func(name string, def float64) float64 {
		if f.Changed(name) {
			v, _ := f.GetFloat64(name)
			return v
		}
		return def
	}

	in := workbench.ManualInput{
		PurchasePrice: pick("purchase-price", cfg.Defaults.PurchasePrice),
		ARV:           pick("arv", cfg.Defaults.ARV),
		RehabBudget:   pick("rehab", cfg.Defaults.RehabBudget),
	}
	if rent := pick("rent", cfg.Defaults.EstMonthlyRent); rent > 0 {
		in.EstMonthlyRent = &rent
	}
	return in
}
