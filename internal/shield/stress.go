package shield

import (
	"github.com/flipforge/dealshield/internal/model"
)

// FirstBreak returns the first scenario, in the order given, whose verdict is
// not BUY. It is the first failure, not the worst one.
func FirstBreak(scenarios []model.StressTestScenario) *model.StressTestScenario {
	i := FirstBreakIndex(scenarios)
	if i < 0 {
		return nil
	}
	s := scenarios[i]
	return &s
}

// FirstBreakIndex is the index of FirstBreak's scenario, or -1.
func FirstBreakIndex(scenarios []model.StressTestScenario) int {
	for i := range scenarios {
		if scenarios[i].Verdict != model.VerdictBuy {
			return i
		}
	}
	return -1
}

// StressState summarizes a scenario list.
type StressState string

const (
	StressNotRun StressState = "not_run"
	StressHolds  StressState = "holds"
	StressBreaks StressState = "breaks"
)

// StressOutcome is the locally derived fragility view of a result.
type StressOutcome struct {
	State      StressState                `json:"state"`
	FirstBreak *model.StressTestScenario `json:"first_break,omitempty"`
}

// Message is the one-line description of the outcome.
func (o StressOutcome) Message() string {
	switch o.State {
	case StressNotRun:
		return "No stress scenarios supplied."
	case StressBreaks:
		return breakClause(o.FirstBreak)
	default:
		return "Holds under all supplied stress scenarios."
	}
}

// Stress classifies scenarios. An empty list is distinct from a list that
// holds.
func Stress(scenarios []model.StressTestScenario) StressOutcome {
	if len(scenarios) == 0 {
		return StressOutcome{State: StressNotRun}
	}
	if b := FirstBreak(scenarios); b != nil {
		return StressOutcome{State: StressBreaks, FirstBreak: b}
	}
	return StressOutcome{State: StressHolds}
}

// BreakpointBadge is the display form of the service's Breakpoints.
type BreakpointBadge struct {
	Text    string `json:"text"`
	Fragile bool   `json:"fragile"`
}

// Badge returns the breakpoint badge, or nil when the service sent none.
func Badge(bp *model.Breakpoints) *BreakpointBadge {
	if bp == nil {
		return nil
	}
	text := bp.FirstBreak()
	if text == "" {
		text = "Holds under mild stress"
	}
	return &BreakpointBadge{Text: text, Fragile: bp.IsFragile}
}
