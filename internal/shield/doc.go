// Package shield derives display-ready judgments from deal drafts and
// analysis results: finalize eligibility, dominant risk, first stress break,
// verdict reconciliation and the integrity gate for institutional outputs.
//
// Every function here is a pure function of its arguments.
package shield
