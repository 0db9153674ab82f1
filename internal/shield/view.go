package shield

import (
	"github.com/flipforge/dealshield/internal/model"
)

// View bundles every derived judgment for one result.
type View struct {
	Verdict         model.Verdict       `json:"verdict"`
	Presentation    Presentation        `json:"presentation"`
	BestStrategy    string              `json:"best_strategy"`
	StrategyVerdict model.Verdict       `json:"strategy_verdict"`
	Confidence      int                 `json:"confidence"`
	Reconciliation  Reconciliation      `json:"reconciliation"`
	WhyBullets      []string            `json:"why_bullets"`
	DominantFlag    *model.RiskFlag     `json:"dominant_flag,omitempty"`
	RankedFlags     []model.RiskFlag    `json:"ranked_flags"`
	Stress          StressOutcome       `json:"stress"`
	Breakpoint      *BreakpointBadge    `json:"breakpoint,omitempty"`
	RehabReality    *model.RehabReality `json:"rehab_reality,omitempty"`
	Allowed         Allowed             `json:"allowed_outputs"`
	GateSummary     string              `json:"gate_summary"`
	Summary         string              `json:"summary"`
	Notes           []string            `json:"notes"`
}

// Build derives the full view of r.
func Build(r *model.AnalyzeResult) View {
	rec := Reconcile(r)
	gate := NewGate(r)
	return View{
		Verdict:         rec.Headline,
		Presentation:    Present(rec.Headline),
		BestStrategy:    StrategyName(r.BestStrategy),
		StrategyVerdict: rec.StrategyVerdict,
		Confidence:      Confidence(r.ConfidenceScore),
		Reconciliation:  rec,
		WhyBullets:      WhyBullets(r),
		DominantFlag:    DominantFlag(r.TypedFlags),
		RankedFlags:     RankFlags(r.TypedFlags),
		Stress:          Stress(r.StressTests),
		Breakpoint:      Badge(r.Breakpoints),
		RehabReality:    r.RehabReality,
		Allowed:         gate.Allowed(),
		GateSummary:     gate.Summary(),
		Summary:         Summary(r),
		Notes:           r.Notes,
	}
}
