package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/flipforge/dealshield/internal/shield"
	"github.com/flipforge/dealshield/internal/workbook"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Show the stress-test grid of a saved result",
	Long: `Print every stress scenario with the first break marked, or write the grid
and a verdict summary to an Excel workbook.

Example:
  dealshield stress --result result.json --xlsx stress.xlsx`,
	RunE: runStress,
}

func init() {
	f := stressCmd.Flags()
	f.String("result", "", "result file (.json, .yaml)")
	f.String("xlsx", "", "write the grid to this .xlsx workbook")
	_ = stressCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(stressCmd)
}

func runStress(cmd *cobra.Command, args []string) error {
	resultPath, _ := cmd.Flags().GetString("result")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	rf, err := loadResult(resultPath)
	if err != nil {
		return eris.Wrap(err, "stress")
	}
	r := rf.Result
	out := cmd.OutOrStdout()

	first := shield.FirstBreakIndex(r.StressTests)
	for i, s := range r.StressTests {
		mark := " "
		if i == first {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-20s ARV %-10s Rehab %-10s %2dmo  Net %-10s Profit %-7s ROI %-7s %s\n",
			mark, s.Name, shield.Money(s.ARV), shield.Money(s.RehabBudget), s.HoldingMonths,
			shield.Money(s.NetProfit), shield.Percent(s.ProfitPct), shield.Percent(s.AnnualizedROI), s.Verdict)
	}
	fmt.Fprintln(out, shield.Stress(r.StressTests).Message())

	if xlsxPath != "" {
		if err := workbook.Save(r, xlsxPath); err != nil {
			return eris.Wrap(err, "stress")
		}
		fmt.Fprintf(out, "Workbook saved to %s\n", xlsxPath)
	}
	return nil
}
