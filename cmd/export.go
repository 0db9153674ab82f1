package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/flipforge/dealshield/internal/workbench"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the lender report for a saved result",
	Long: `Ask the analysis service to render the lender report PDF for a saved result.
Nothing is requested when the integrity gate locks the lender report.

Example:
  dealshield export --result result.json --out report.pdf`,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("result", "", "result file (.json, .yaml)")
	f.String("out", "", "output PDF path (default from config)")
	_ = exportCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resultPath, _ := cmd.Flags().GetString("result")
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = cfg.Export.LenderReportFilename
	}

	rf, err := loadResult(resultPath)
	if err != nil {
		return eris.Wrap(err, "export")
	}

	w := workbench.New(newClient(), cfg.Defaults.Financing())
	w.LoadResult(rf.Result, rf.Meta)

	// Write to a temp file first so a failed render leaves no partial PDF.
	tmp, err := os.CreateTemp(".", ".lender-report-*.pdf")
	if err != nil {
		return eris.Wrap(err, "export: create temp file")
	}
	defer os.Remove(tmp.Name())

	n, err := w.ExportLenderReport(ctx, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = eris.Wrap(cerr, "export: close temp file")
	}
	if err != nil {
		return eris.Wrap(err, "export")
	}

	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return eris.Wrapf(err, "export: move report to %s", outPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Lender report saved to %s (%d bytes)\n", outPath, n)
	return nil
}
