// Package workbook writes analysis results to .xlsx workbooks.
package workbook

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
)

// Sheet names.
const (
	StressSheet  = "Stress Tests"
	SummarySheet = "Summary"
)

// StressHeader is the header row of the stress sheet.
var StressHeader = []string{
	"Scenario", "ARV", "Rehab Budget", "Holding Months",
	"Net Profit", "Profit %", "Annualized ROI", "Verdict", "First Break",
}

// Build assembles a workbook with a summary sheet and one stress row per
// scenario, in service order. The first breaking scenario is marked.
func Build(r *model.AnalyzeResult) (*xlsx.File, error) {
	f := xlsx.NewFile()
	view := shield.Build(r)

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: add summary sheet")
	}
	addPair(summary, "Verdict", string(view.Verdict))
	addPair(summary, "Best Strategy", view.BestStrategy+" ("+string(view.StrategyVerdict)+")")
	addPair(summary, "Summary", view.Summary)
	if view.Reconciliation.Conflict {
		addPair(summary, "Conflict", view.Reconciliation.Explanation)
	}
	addPair(summary, "Stress", view.Stress.Message())
	addPair(summary, "Integrity Gate", view.GateSummary)
	for _, b := range view.WhyBullets {
		addPair(summary, "Why", b)
	}

	stress, err := f.AddSheet(StressSheet)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: add stress sheet")
	}
	header := stress.AddRow()
	for _, h := range StressHeader {
		header.AddCell().SetString(h)
	}

	breakIdx := shield.FirstBreakIndex(r.StressTests)
	for i, s := range r.StressTests {
		row := stress.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetFloat(s.ARV)
		row.AddCell().SetFloat(s.RehabBudget)
		row.AddCell().SetInt(s.HoldingMonths)
		row.AddCell().SetFloat(s.NetProfit)
		row.AddCell().SetString(shield.Percent(s.ProfitPct))
		row.AddCell().SetString(shield.Percent(s.AnnualizedROI))
		row.AddCell().SetString(string(s.Verdict))
		mark := "NO"
		if i == breakIdx {
			mark = "YES"
		}
		row.AddCell().SetString(mark)
	}

	return f, nil
}

// Write builds the workbook for r and writes it to w.
func Write(r *model.AnalyzeResult, w io.Writer) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "workbook: write")
	}
	return nil
}

// Save builds the workbook for r and saves it at path.
func Save(r *model.AnalyzeResult, path string) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "workbook: save")
	}
	return nil
}

func addPair(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}
