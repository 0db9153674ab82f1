package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Draft field names as used on the wire and in missing_fields lists.
const (
	FieldPurchasePrice  = "purchase_price"
	FieldARV            = "arv"
	FieldRehabBudget    = "rehab_budget"
	FieldEstMonthlyRent = "est_monthly_rent"
)

// RequiredFields lists the fields a draft must carry before it can be finalized,
// in display order.
var RequiredFields = []string{FieldPurchasePrice, FieldARV, FieldRehabBudget}

// Assumptions are the plain numeric underwriting inputs. The analysis service
// supplies defaults for them on extracted drafts. A nil value is left off the
// wire so the service applies its own default.
type Assumptions struct {
	ClosingCostPct          *float64 `json:"closing_cost_pct,omitempty"`
	SellingCostPct          *float64 `json:"selling_cost_pct,omitempty"`
	HoldingMonths           *int     `json:"holding_months,omitempty"`
	AnnualInterestRate      *float64 `json:"annual_interest_rate,omitempty"`
	LoanToCostPct           *float64 `json:"loan_to_cost_pct,omitempty"`
	RequiredProfitMarginPct *float64 `json:"required_profit_margin_pct,omitempty"`
}

// Draft is a deal under construction, awaiting confirmation before analysis.
type Draft struct {
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
	Address string `json:"address,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Region  string `json:"region,omitempty"`

	PurchasePrice  Field[float64] `json:"purchase_price"`
	ARV            Field[float64] `json:"arv"`
	RehabBudget    Field[float64] `json:"rehab_budget"`
	EstMonthlyRent Field[float64] `json:"est_monthly_rent"`

	Assumptions

	Notes   []string `json:"notes"`
	Signals []string `json:"signals"`
}

// SourceManual tags drafts built by hand rather than extracted from a listing.
const SourceManual = "MANUAL"

// NewManualDraft returns a draft with every value field unknown and the given
// assumptions, ready for field-by-field entry.
func NewManualDraft(a Assumptions) Draft {
	return Draft{
		Source:         SourceManual,
		PurchasePrice:  Unknown[float64](),
		ARV:            Unknown[float64](),
		RehabBudget:    Unknown[float64](),
		EstMonthlyRent: Unknown[float64](),
		Assumptions:    a,
	}
}

// SourceBlocked reports whether the listing site refused the extraction.
func (d Draft) SourceBlocked() bool {
	return strings.Contains(strings.ToUpper(d.Source), "SOURCE_BLOCKED")
}

// FieldByName returns the confidence field stored under the wire name.
func (d Draft) FieldByName(name string) (Field[float64], bool) {
	switch name {
	case FieldPurchasePrice:
		return d.PurchasePrice, true
	case FieldARV:
		return d.ARV, true
	case FieldRehabBudget:
		return d.RehabBudget, true
	case FieldEstMonthlyRent:
		return d.EstMonthlyRent, true
	default:
		return Field[float64]{}, false
	}
}

// SetValue replaces only the value of the named field and returns the updated
// draft. The receiver is left untouched.
func (d Draft) SetValue(name string, v *float64) (Draft, error) {
	switch name {
	case FieldPurchasePrice:
		d.PurchasePrice = d.PurchasePrice.WithValue(v)
	case FieldARV:
		d.ARV = d.ARV.WithValue(v)
	case FieldRehabBudget:
		d.RehabBudget = d.RehabBudget.WithValue(v)
	case FieldEstMonthlyRent:
		d.EstMonthlyRent = d.EstMonthlyRent.WithValue(v)
	default:
		return d, eris.Errorf("model: unknown draft field %q", name)
	}
	return d, nil
}

// AnalyzeRequest is the legacy manual-entry payload for POST /api/analyze.
type AnalyzeRequest struct {
	PurchasePrice float64 `json:"purchase_price"`
	ARV           float64 `json:"arv"`
	RehabBudget   float64 `json:"rehab_budget"`

	ClosingCostPct *float64 `json:"closing_cost_pct,omitempty"`
	SellingCostPct *float64 `json:"selling_cost_pct,omitempty"`
	HoldingMonths  *int     `json:"holding_months,omitempty"`

	AnnualInterestRate      *float64 `json:"annual_interest_rate,omitempty"`
	LoanToCostPct           *float64 `json:"loan_to_cost_pct,omitempty"`
	RequiredProfitMarginPct *float64 `json:"required_profit_margin_pct,omitempty"`

	EstMonthlyRent *float64 `json:"est_monthly_rent"`
	Region         *string  `json:"region,omitempty"`
}
