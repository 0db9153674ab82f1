package shield

import (
	"fmt"
	"strings"

	"github.com/flipforge/dealshield/internal/model"
)

// fallbackExplanation is used when a conflict exists but no local evidence
// explains it.
const fallbackExplanation = "Overall verdict overrides strategy due to risk + stress-test fragility."

// Reconciliation compares the overall verdict with the best strategy's verdict.
type Reconciliation struct {
	Headline        model.Verdict `json:"headline"`
	StrategyVerdict model.Verdict `json:"strategy_verdict"`
	Conflict        bool          `json:"conflict"`
	// Explanation is empty unless Conflict is set.
	Explanation string `json:"explanation"`
}

// Reconcile detects a disagreement between the headline verdict and the best
// strategy's verdict and explains it. The service's verdict_reason is used
// verbatim when present; otherwise the explanation is assembled from the
// first stress break, the service breakpoint and the dominant flag, in that
// order.
func Reconcile(r *model.AnalyzeResult) Reconciliation {
	rec := Reconciliation{
		Headline:        r.Headline(),
		StrategyVerdict: r.StrategyVerdict(),
	}
	rec.Conflict = rec.Headline != rec.StrategyVerdict
	if !rec.Conflict {
		return rec
	}

	if reason := strings.TrimSpace(r.VerdictReason); reason != "" {
		rec.Explanation = reason
		return rec
	}

	var parts []string
	if b := FirstBreak(r.StressTests); b != nil {
		parts = append(parts, breakClause(b))
	}
	if name := r.Breakpoints.FirstBreak(); name != "" {
		parts = append(parts, fmt.Sprintf("First breakpoint: %s.", name))
	}
	if f := DominantFlag(r.TypedFlags); f != nil {
		parts = append(parts, fmt.Sprintf("Top risk: %s (%s).", f.Label, f.Severity))
	}
	if len(parts) == 0 {
		parts = append(parts, fallbackExplanation)
	}

	rec.Explanation = strings.Join(parts, " ")
	return rec
}

// WhyBullets builds the "why this verdict" list for any result, conflicting
// or not. The service's verdict_reason, when present, comes first.
func WhyBullets(r *model.AnalyzeResult) []string {
	var bullets []string
	if r.VerdictReason != "" {
		bullets = append(bullets, r.VerdictReason)
	}

	if r.Profit() <= 0 {
		bullets = append(bullets, "Deal loses money in the base case.")
	} else {
		bullets = append(bullets, "Deal is profitable assuming inputs are accurate.")
	}

	if rr := r.RehabReality; rr != nil {
		bullets = append(bullets, fmt.Sprintf("Rehab Reality: %s (%.0f%% of purchase price).", rr.Severity, rr.RehabRatio*100))
	}

	if name := r.Breakpoints.FirstBreak(); name != "" {
		bullets = append(bullets, fmt.Sprintf("Breakpoint: %s is the first scenario that kills this deal.", name))
	} else {
		bullets = append(bullets, "Breakpoint: Deal holds up under mild stress.")
	}

	return bullets
}

func breakClause(s *model.StressTestScenario) string {
	return fmt.Sprintf("Breaks under \"%s\" stress (%s).", s.Name, s.Verdict)
}
