package shield

import (
	"github.com/flipforge/dealshield/internal/model"
)

// CanFinalize reports whether the draft may be submitted for analysis. All
// required fields must hold a value with purchase_price > 0, arv > 0 and
// rehab_budget >= 0. Confidence tags never block submission.
func CanFinalize(d model.Draft) bool {
	return len(MissingRequired(d)) == 0
}

// MissingRequired lists the required fields that are absent or out of bounds,
// in display order.
func MissingRequired(d model.Draft) []string {
	var missing []string
	if v, ok := d.PurchasePrice.Get(); !ok || !(v > 0) {
		missing = append(missing, model.FieldPurchasePrice)
	}
	if v, ok := d.ARV.Get(); !ok || !(v > 0) {
		missing = append(missing, model.FieldARV)
	}
	if v, ok := d.RehabBudget.Get(); !ok || !(v >= 0) {
		missing = append(missing, model.FieldRehabBudget)
	}
	return missing
}

// Highlight is how an input should be marked in the editor.
type Highlight string

const (
	HighlightOK        Highlight = "ok"
	HighlightUncertain Highlight = "uncertain"
	HighlightMissing   Highlight = "missing"
)

// Highlights marks every editable draft field. Fields named in missing (as
// returned by a rejected finalize) are marked missing; otherwise LOW and
// MISSING confidence is marked uncertain.
func Highlights(d model.Draft, missing []string) map[string]Highlight {
	named := make(map[string]bool, len(missing))
	for _, m := range missing {
		named[m] = true
	}

	out := make(map[string]Highlight, 4)
	for _, name := range []string{
		model.FieldPurchasePrice,
		model.FieldARV,
		model.FieldRehabBudget,
		model.FieldEstMonthlyRent,
	} {
		f, _ := d.FieldByName(name)
		switch {
		case named[name]:
			out[name] = HighlightMissing
		case f.Confidence.IsLow():
			out[name] = HighlightUncertain
		default:
			out[name] = HighlightOK
		}
	}
	return out
}
