package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
	"github.com/flipforge/dealshield/internal/workbench"
)

const sourceBlockedNotice = "Source blocked (403). Fill the numbers manually."

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create a deal draft from a listing URL or by hand",
	Long: `Create a deal draft for review before analysis.

With --url the analysis service extracts values and confidence tags from the
listing. With --manual an empty draft is started and the underwriting
assumptions are left to the service defaults. Either way --set edits values
(confidence tags are kept).

Examples:
  # Extract a draft and save it for editing
  dealshield draft --url https://www.zillow.com/homedetails/123 --out deal.yaml

  # Start by hand
  dealshield draft --manual --set purchase_price=150000 --set arv=240000 --set rehab_budget=20000 --out deal.json`,
	RunE: runDraft,
}

func init() {
	f := draftCmd.Flags()
	f.String("url", "", "listing URL to extract from")
	f.Bool("manual", false, "start an empty manual draft")
	f.StringArray("set", nil, "field=value edit, repeatable (empty value clears)")
	f.String("out", "", "write the draft to this file (.json, .yaml)")
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	url, _ := cmd.Flags().GetString("url")
	manual, _ := cmd.Flags().GetBool("manual")
	sets, _ := cmd.Flags().GetStringArray("set")
	outPath, _ := cmd.Flags().GetString("out")

	if (url == "") == !manual {
		return eris.New("draft: pass exactly one of --url or --manual")
	}
	edits, err := parseSets(sets)
	if err != nil {
		return eris.Wrap(err, "draft")
	}

	w := workbench.New(newClient(), cfg.Defaults.Financing())
	if manual {
		w.StartDraft(model.Assumptions{})
	} else if _, err := w.FetchDraft(ctx, url); err != nil {
		return eris.Wrap(err, "draft")
	}

	if err := applySets(w, edits); err != nil {
		return eris.Wrap(err, "draft")
	}

	d, _ := w.Draft()
	printDraft(cmd.OutOrStdout(), d, w.Highlights())

	if outPath != "" {
		if err := saveDoc(outPath, d); err != nil {
			return eris.Wrap(err, "draft: save")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Draft saved to %s\n", outPath)
	}
	return nil
}

func applySets(w *workbench.Workbench, edits map[string]*float64) error {
	for name, v := range edits {
		if err := w.SetField(name, v); err != nil {
			return err
		}
	}
	return nil
}

var draftFieldLabels = []struct {
	name  string
	label string
}{
	{model.FieldPurchasePrice, "Purchase Price"},
	{model.FieldARV, "ARV"},
	{model.FieldRehabBudget, "Rehab Budget"},
	{model.FieldEstMonthlyRent, "Est. Monthly Rent"},
}

func printDraft(out io.Writer, d model.Draft, highlights map[string]shield.Highlight) {
	if d.SourceBlocked() {
		fmt.Fprintln(out, sourceBlockedNotice)
	}
	fmt.Fprintf(out, "Source: %s\n", d.Source)
	if d.Address != "" {
		fmt.Fprintf(out, "Address: %s\n", d.Address)
	}

	for _, fl := range draftFieldLabels {
		f, _ := d.FieldByName(fl.name)
		value := "—"
		if v, ok := f.Get(); ok {
			value = shield.Money(v)
		}
		conf := string(f.Confidence)
		if conf == "" {
			conf = "-"
		}
		fmt.Fprintf(out, "  %-18s %-12s %-8s %s\n", fl.label, value, conf, highlights[fl.name])
	}

	if missing := shield.MissingRequired(d); len(missing) > 0 {
		fmt.Fprintf(out, "Not ready: fill %v before analyzing.\n", missing)
	} else {
		fmt.Fprintln(out, "Ready to finalize.")
	}
	for _, s := range d.Signals {
		fmt.Fprintf(out, "  signal: %s\n", s)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(out, "  note: %s\n", n)
	}
}
