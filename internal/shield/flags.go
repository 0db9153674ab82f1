package shield

import (
	"slices"

	"github.com/flipforge/dealshield/internal/model"
)

// RankFlags returns a copy of flags ordered by severity. Equal severities keep
// the service's order.
func RankFlags(flags []model.RiskFlag) []model.RiskFlag {
	ranked := slices.Clone(flags)
	slices.SortStableFunc(ranked, func(a, b model.RiskFlag) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
	return ranked
}

// DominantFlag returns the highest-severity flag, or nil when there are none.
func DominantFlag(flags []model.RiskFlag) *model.RiskFlag {
	if len(flags) == 0 {
		return nil
	}
	top := RankFlags(flags)[0]
	return &top
}
