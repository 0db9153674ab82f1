package model

import (
	"encoding/json"
	"strings"
)

// Verdict is the tri-state deal judgment.
type Verdict string

const (
	VerdictBuy         Verdict = "BUY"
	VerdictConditional Verdict = "CONDITIONAL"
	VerdictPass        Verdict = "PASS"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictBuy, VerdictConditional, VerdictPass:
		return true
	}
	return false
}

// Strategy is one of the exit plans the service scores independently.
type Strategy string

const (
	StrategyFlip      Strategy = "flip"
	StrategyBRRRR     Strategy = "brrrr"
	StrategyWholesale Strategy = "wholesale"
)

// Severity grades a risk flag.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityMild     Severity = "mild"
)

// severityRank is the one total order for severities. Lower rank means higher
// priority.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityModerate: 1,
	SeverityMild:     2,
}

// Rank returns the priority rank of s. Unrecognized severities rank after mild.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// RiskFlag is a categorized risk signal returned by the analysis service.
type RiskFlag struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// StressTestScenario is one adverse-case re-run of the deal.
type StressTestScenario struct {
	Name          string  `json:"name"`
	ARV           float64 `json:"arv"`
	RehabBudget   float64 `json:"rehab_budget"`
	HoldingMonths int     `json:"holding_months"`
	NetProfit     float64 `json:"net_profit"`
	ProfitPct     float64 `json:"profit_pct"`
	AnnualizedROI float64 `json:"annualized_roi"`
	Verdict       Verdict `json:"verdict"`
}

// BreakReason explains why a stress scenario broke the deal.
type BreakReason string

const (
	BreakNegativeProfit BreakReason = "NEGATIVE_PROFIT"
	BreakBelowMargin    BreakReason = "BELOW_MARGIN"
	BreakVerdictFail    BreakReason = "VERDICT_FAIL"
)

// Breakpoints is the service's own fragility summary. A nil FirstBreakScenario
// means the deal held under every supplied scenario.
type Breakpoints struct {
	FirstBreakScenario *string      `json:"first_break_scenario"`
	BreakReason        *BreakReason `json:"break_reason"`
	IsFragile          bool         `json:"is_fragile"`
}

// FirstBreak returns the first-break scenario name, or "" when none broke.
func (b *Breakpoints) FirstBreak() string {
	if b == nil || b.FirstBreakScenario == nil {
		return ""
	}
	return *b.FirstBreakScenario
}

// RehabReality classifies the rehab budget relative to purchase price.
type RehabReality struct {
	Severity   string  `json:"severity"`
	RehabRatio float64 `json:"rehab_ratio"`
}

// AllowedOutputs is the service's allow-list for institutional outputs.
// A key absent from the payload decodes to false.
type AllowedOutputs struct {
	LenderReport      bool `json:"lender_report"`
	NegotiationScript bool `json:"negotiation_script"`
}

// AnalyzeResult is the full analysis response. It is treated as immutable once
// decoded.
type AnalyzeResult struct {
	TotalProjectCost float64 `json:"total_project_cost"`
	GrossProfit      float64 `json:"gross_profit"`
	NetProfit        float64 `json:"net_profit"`
	ProfitPct        float64 `json:"profit_pct"`
	AnnualizedROI    float64 `json:"annualized_roi"`
	MaxSafeOffer     float64 `json:"max_safe_offer"`

	FlipScore        float64  `json:"flip_score"`
	BRRRRScore       float64  `json:"brrrr_score"`
	WholesaleScore   float64  `json:"wholesale_score"`
	BestStrategy     Strategy `json:"best_strategy"`
	OverallVerdict   Verdict  `json:"overall_verdict"`
	FlipVerdict      Verdict  `json:"flip_verdict"`
	BRRRRVerdict     Verdict  `json:"brrrr_verdict"`
	WholesaleVerdict Verdict  `json:"wholesale_verdict"`

	ConfidenceScore float64              `json:"confidence_score"`
	RiskFlags       []string             `json:"risk_flags"`
	TypedFlags      []RiskFlag           `json:"typed_flags"`
	StressTests     []StressTestScenario `json:"stress_tests"`
	Notes           []string             `json:"notes"`

	RentToCostRatio  *float64 `json:"rent_to_cost_ratio,omitempty"`
	AssignmentSpread *float64 `json:"assignment_spread,omitempty"`

	RehabReality   *RehabReality   `json:"rehab_reality,omitempty"`
	Breakpoints    *Breakpoints    `json:"breakpoints,omitempty"`
	VerdictReason  string          `json:"verdict_reason,omitempty"`
	AllowedOutputs *AllowedOutputs `json:"allowed_outputs,omitempty"`

	// GrossProfitOnly is set when the payload carried gross_profit but no
	// net_profit, so display code can fall back.
	GrossProfitOnly bool `json:"-"`
}

// UnmarshalJSON decodes a result and folds older wire spellings into the
// canonical fields.
func (r *AnalyzeResult) UnmarshalJSON(data []byte) error {
	type canonical AnalyzeResult
	var wire struct {
		canonical
		LegacyVerdictReason string           `json:"verdictReason"`
		NetProfitRaw        *json.RawMessage `json:"net_profit"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = AnalyzeResult(wire.canonical)
	if wire.NetProfitRaw != nil {
		if err := json.Unmarshal(*wire.NetProfitRaw, &r.NetProfit); err != nil {
			return err
		}
	} else {
		r.GrossProfitOnly = true
	}
	if strings.TrimSpace(r.VerdictReason) == "" {
		r.VerdictReason = wire.LegacyVerdictReason
	}
	return nil
}

// Profit is the headline profit: net profit, or gross profit for payloads
// that omitted net profit.
func (r *AnalyzeResult) Profit() float64 {
	if r.GrossProfitOnly {
		return r.GrossProfit
	}
	return r.NetProfit
}

// StrategyVerdict returns the per-strategy verdict for the best strategy.
// An unrecognized strategy resolves to the wholesale verdict.
func (r *AnalyzeResult) StrategyVerdict() Verdict {
	switch r.BestStrategy {
	case StrategyFlip:
		return r.FlipVerdict
	case StrategyBRRRR:
		return r.BRRRRVerdict
	default:
		return r.WholesaleVerdict
	}
}

// Headline is the authoritative verdict shown to the user. An empty overall
// verdict reads as CONDITIONAL.
func (r *AnalyzeResult) Headline() Verdict {
	if r.OverallVerdict == "" {
		return VerdictConditional
	}
	return r.OverallVerdict
}
