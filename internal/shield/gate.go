package shield

import (
	"strings"

	"github.com/flipforge/dealshield/internal/model"
)

// Output is an institutional export guarded by the integrity gate.
type Output string

const (
	OutputLenderReport      Output = "lender_report"
	OutputNegotiationScript Output = "negotiation_script"
)

// DisplayName is the human name of the output.
func (o Output) DisplayName() string {
	switch o {
	case OutputLenderReport:
		return "Lender Report"
	case OutputNegotiationScript:
		return "Negotiation Script"
	default:
		return string(o)
	}
}

// Outputs lists every gated output in display order.
var Outputs = []Output{OutputLenderReport, OutputNegotiationScript}

// GateState is the per-output lock state for one result.
type GateState string

const (
	Locked   GateState = "LOCKED"
	Unlocked GateState = "UNLOCKED"
)

// Allowed is the evaluated allow-list for one result.
type Allowed struct {
	LenderReport      bool `json:"lender_report"`
	NegotiationScript bool `json:"negotiation_script"`
}

// AllowedOutputs evaluates the integrity gate. When the service sent an
// allow-list it is used as-is, absent keys being false. When the service sent
// none at all, every output is allowed.
func AllowedOutputs(r *model.AnalyzeResult) Allowed {
	if r.AllowedOutputs == nil {
		return Allowed{LenderReport: true, NegotiationScript: true}
	}
	return Allowed{
		LenderReport:      r.AllowedOutputs.LenderReport,
		NegotiationScript: r.AllowedOutputs.NegotiationScript,
	}
}

// Gate is the integrity gate evaluated once for a result. It has no setters:
// a new result needs a new Gate.
type Gate struct {
	allowed Allowed
}

// NewGate evaluates the gate for r.
func NewGate(r *model.AnalyzeResult) Gate {
	return Gate{allowed: AllowedOutputs(r)}
}

// Allowed returns the evaluated allow-list.
func (g Gate) Allowed() Allowed {
	return g.allowed
}

// Permits reports whether o may be produced.
func (g Gate) Permits(o Output) bool {
	switch o {
	case OutputLenderReport:
		return g.allowed.LenderReport
	case OutputNegotiationScript:
		return g.allowed.NegotiationScript
	default:
		return false
	}
}

// State returns the lock state of o.
func (g Gate) State(o Output) GateState {
	if g.Permits(o) {
		return Unlocked
	}
	return Locked
}

// Suppressed lists the locked outputs in display order.
func (g Gate) Suppressed() []Output {
	var out []Output
	for _, o := range Outputs {
		if !g.Permits(o) {
			out = append(out, o)
		}
	}
	return out
}

// Summary is the one-line gate status.
func (g Gate) Summary() string {
	suppressed := g.Suppressed()
	if len(suppressed) == 0 {
		return "Outputs enabled. Proceed with caution if flagged as CONDITIONAL."
	}
	names := make([]string, len(suppressed))
	for i, o := range suppressed {
		names[i] = o.DisplayName()
	}
	return "Suppressed: " + strings.Join(names, " • ")
}
