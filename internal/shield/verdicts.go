package shield

import (
	"github.com/flipforge/dealshield/internal/model"
)

// Presentation is the display metadata for a verdict.
type Presentation struct {
	Label    string `json:"label"`
	Subtitle string `json:"subtitle"`
	Tone     string `json:"tone"`
}

var verdictTable = map[model.Verdict]Presentation{
	model.VerdictBuy: {
		Label:    "BUY",
		Subtitle: "Numbers look solid. Move to comps + scope validation.",
		Tone:     "emerald",
	},
	model.VerdictConditional: {
		Label:    "CONDITIONAL",
		Subtitle: "Close, but something's tight. Validate assumptions before offering.",
		Tone:     "amber",
	},
	model.VerdictPass: {
		Label:    "PASS",
		Subtitle: "Doesn't meet your safety margin. Don't force it.",
		Tone:     "red",
	},
}

// Present returns the presentation for v. Unrecognized verdicts get the
// CONDITIONAL entry.
func Present(v model.Verdict) Presentation {
	if p, ok := verdictTable[v]; ok {
		return p
	}
	return verdictTable[model.VerdictConditional]
}

// StrategyName is the display name of a strategy.
func StrategyName(s model.Strategy) string {
	switch s {
	case model.StrategyFlip:
		return "Flip"
	case model.StrategyBRRRR:
		return "BRRRR"
	default:
		return "Wholesale"
	}
}
