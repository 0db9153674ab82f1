package model

import "strings"

// ExportMeta is the presentation-only context sent alongside a result when a
// document is exported. It never changes underwriting math.
type ExportMeta struct {
	ListingURL      *string `json:"listing_url"`
	PropertyAddress *string `json:"property_address"`

	PurchasePrice  *float64 `json:"purchase_price"`
	ARV            *float64 `json:"arv"`
	RehabBudget    *float64 `json:"rehab_budget"`
	EstMonthlyRent *float64 `json:"est_monthly_rent"`

	HoldingMonths   int     `json:"holding_months"`
	InterestRatePct float64 `json:"interest_rate_pct"`
	LTCPct          float64 `json:"ltc_pct"`
}

// Financing holds the financing assumptions shown on exported documents.
type Financing struct {
	HoldingMonths      int
	AnnualInterestRate float64
	LoanToCostPct      float64
}

// NewExportMeta snapshots a draft for export. The listing URL falls back to
// the draft's own URL and the address to manualAddress when the draft has
// none. Blank strings become nulls.
func NewExportMeta(d Draft, listingURL, manualAddress string, fin Financing) ExportMeta {
	if strings.TrimSpace(listingURL) == "" {
		listingURL = d.URL
	}
	addr := d.Address
	if strings.TrimSpace(addr) == "" {
		addr = manualAddress
	}
	return ExportMeta{
		ListingURL:      nonEmpty(listingURL),
		PropertyAddress: nonEmpty(addr),
		PurchasePrice:   copyPtr(d.PurchasePrice.Value),
		ARV:             copyPtr(d.ARV.Value),
		RehabBudget:     copyPtr(d.RehabBudget.Value),
		EstMonthlyRent:  copyPtr(d.EstMonthlyRent.Value),
		HoldingMonths:   fin.HoldingMonths,
		InterestRatePct: fin.AnnualInterestRate,
		LTCPct:          fin.LoanToCostPct,
	}
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
