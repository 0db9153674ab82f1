package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/flipforge/dealshield/internal/feedback"
	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
)

// Copy targets accepted by --copy.
const (
	copySummary = "summary"
	copyOffer   = "offer"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain a saved analysis result",
	Long: `Print the verdict, any conflict between the overall and strategy verdicts,
why-bullets, the dominant risk flag, stress breakpoints and the integrity gate.

Examples:
  dealshield explain --result result.json
  dealshield explain --result result.yaml --format yaml
  dealshield explain --result result.json --copy summary`,
	RunE: runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.String("result", "", "result file (.json, .yaml)")
	f.String("format", formatText, "output format: text, json or yaml")
	f.String("copy", "", "copy to clipboard: summary or offer")
	_ = explainCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	resultPath, _ := cmd.Flags().GetString("result")
	format, _ := cmd.Flags().GetString("format")
	copyWhat, _ := cmd.Flags().GetString("copy")

	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return eris.Errorf("explain: --format must be text, json or yaml (got %q)", format)
	}
	switch copyWhat {
	case "", copySummary, copyOffer:
	default:
		return eris.Errorf("explain: --copy must be summary or offer (got %q)", copyWhat)
	}

	rf, err := loadResult(resultPath)
	if err != nil {
		return eris.Wrap(err, "explain")
	}

	out := cmd.OutOrStdout()
	if format == formatText {
		printResult(out, rf.Result)
	} else if err := writeDoc(out, shield.Build(rf.Result), format); err != nil {
		return eris.Wrap(err, "explain")
	}

	if copyWhat != "" {
		copyResult(out, newCopier(copyWhat), copyWhat, rf.Result)
	}
	return nil
}

func newCopier(what string) *feedback.Copier {
	ttl := cfg.Feedback.CopiedTTL()
	if what == copyOffer {
		ttl = cfg.Feedback.MetricTTL()
	}
	return feedback.NewCopier(ttl, feedback.Exclusive())
}

// copyResult copies the requested text and reports the outcome. A clipboard
// failure is reported but is not an error.
func copyResult(out io.Writer, c *feedback.Copier, what string, r *model.AnalyzeResult) {
	defer c.Stop()

	text, label := shield.Summary(r), "Copy Summary"
	if what == copyOffer {
		text, label = shield.OfferText(r), "Copy Offer"
	}
	if !c.Copy(what, text) {
		fmt.Fprintf(out, "%s: not copied (clipboard unavailable)\n", label)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", label, c.Label(what, label))
}

// printResult renders the full text explanation of a result.
func printResult(out io.Writer, r *model.AnalyzeResult) {
	v := shield.Build(r)

	fmt.Fprintf(out, "%s  %s\n", v.Presentation.Label, v.Presentation.Subtitle)
	fmt.Fprintf(out, "Best strategy: %s (%s)  Confidence: %d/100\n", v.BestStrategy, v.StrategyVerdict, v.Confidence)
	if v.Reconciliation.Conflict {
		fmt.Fprintf(out, "Conflict: overall %s vs %s %s. %s\n",
			v.Reconciliation.Headline, v.BestStrategy, v.Reconciliation.StrategyVerdict, v.Reconciliation.Explanation)
	}

	fmt.Fprintf(out, "Max safe offer: %s  Net: %s  Profit: %s  ROI: %s\n",
		shield.Money(r.MaxSafeOffer), shield.Money(r.Profit()), shield.Percent(r.ProfitPct), shield.Percent(r.AnnualizedROI))

	fmt.Fprintln(out, "Why:")
	for _, b := range v.WhyBullets {
		fmt.Fprintf(out, "  - %s\n", b)
	}

	if v.DominantFlag != nil {
		fmt.Fprintf(out, "Top risk: %s (%s)\n", v.DominantFlag.Label, v.DominantFlag.Severity)
	}
	for _, f := range v.RankedFlags {
		fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Label)
	}

	fmt.Fprintf(out, "Stress: %s\n", v.Stress.Message())
	if v.Breakpoint != nil {
		badge := v.Breakpoint.Text
		if v.Breakpoint.Fragile {
			badge += " (fragile)"
		}
		fmt.Fprintf(out, "Breakpoint: %s\n", badge)
	}

	gate := shield.NewGate(r)
	states := make([]string, 0, len(shield.Outputs))
	for _, o := range shield.Outputs {
		states = append(states, fmt.Sprintf("%s %s", o.DisplayName(), gate.State(o)))
	}
	fmt.Fprintf(out, "Integrity gate: %s. %s\n", strings.Join(states, ", "), v.GateSummary)

	for _, n := range v.Notes {
		fmt.Fprintf(out, "Note: %s\n", n)
	}
	fmt.Fprintf(out, "Summary: %s\n", v.Summary)
}
