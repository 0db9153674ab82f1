package workbench

import (
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNoDraft is returned when a draft operation runs before a draft exists.
	ErrNoDraft = eris.New("workbench: fetch or start a draft first")
	// ErrNoResult is returned when an export runs before any analysis.
	ErrNoResult = eris.New("workbench: analyze a deal first")
	// ErrSuppressed is returned when the integrity gate locks an output.
	ErrSuppressed = eris.New("workbench: suppressed by integrity gate")
)

// ValidationError is a local, recoverable input failure. It is raised before
// any network call.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "workbench: " + e.Message
	}
	return "workbench: " + e.Message + " (" + strings.Join(e.Fields, ", ") + ")"
}
