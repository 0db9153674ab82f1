// Package workbench drives one user's deal session: drafting, editing,
// finalizing, manual analysis and export, against the analysis service.
package workbench

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/flipforge/dealshield/internal/inflight"
	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
	"github.com/flipforge/dealshield/pkg/dealapi"
)

// Action names guarded against concurrent submission.
const (
	ActionDraft    = "draft"
	ActionFinalize = "finalize"
	ActionAnalyze  = "analyze"
	ActionExport   = "export"
)

// Workbench holds the session state. The result is replaced only by a
// successful analysis; failures leave it as it was.
type Workbench struct {
	client dealapi.Client
	guard  *inflight.Guard

	mu            sync.Mutex
	listingURL    string
	manualAddress string
	financing     model.Financing
	draft         *model.Draft
	missing       []string
	result        *model.AnalyzeResult
	meta          model.ExportMeta
}

// New creates a workbench that talks to client.
func New(client dealapi.Client, fin model.Financing) *Workbench {
	return &Workbench{
		client:    client,
		guard:     inflight.NewGuard(),
		financing: fin,
	}
}

// Busy reports whether action has a request in flight.
func (w *Workbench) Busy(action string) bool {
	return w.guard.Busy(action)
}

// SetManualAddress sets the address used on exports when the draft has none.
func (w *Workbench) SetManualAddress(addr string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.manualAddress = addr
}

// SetFinancing sets the presentation-only financing assumptions.
func (w *Workbench) SetFinancing(fin model.Financing) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.financing = fin
}

// FetchDraft asks the service to extract a draft from listingURL. On success
// the draft replaces any previous one and the previous result is cleared.
func (w *Workbench) FetchDraft(ctx context.Context, listingURL string) (*model.Draft, error) {
	listingURL = strings.TrimSpace(listingURL)
	if listingURL == "" {
		return nil, &ValidationError{Message: "paste a listing URL first"}
	}

	var d *model.Draft
	err := w.guard.Do(ctx, ActionDraft, func(ctx context.Context) error {
		var err error
		d, err = w.client.DraftFromURL(ctx, listingURL)
		return err
	})
	if err != nil {
		zap.L().Warn("workbench: draft from url failed", zap.String("url", listingURL), zap.Error(err))
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.listingURL = listingURL
	w.draft = d
	w.missing = nil
	w.result = nil

	zap.L().Info("workbench: draft fetched",
		zap.String("url", listingURL),
		zap.String("source", d.Source),
		zap.Bool("source_blocked", d.SourceBlocked()),
	)
	out := *d
	return &out, nil
}

// StartDraft begins a manual draft with every value unknown.
func (w *Workbench) StartDraft(a model.Assumptions) model.Draft {
	d := model.NewManualDraft(a)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = &d
	w.missing = nil
	return d
}

// LoadDraft adopts a draft produced elsewhere, e.g. read from a file.
func (w *Workbench) LoadDraft(d model.Draft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = &d
	w.missing = nil
}

// Draft returns a copy of the current draft.
func (w *Workbench) Draft() (model.Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return model.Draft{}, false
	}
	return *w.draft, true
}

// SetField replaces the value of one draft field, keeping its metadata.
func (w *Workbench) SetField(name string, v *float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return ErrNoDraft
	}
	next, err := w.draft.SetValue(name, v)
	if err != nil {
		return err
	}
	w.draft = &next
	return nil
}

// MissingFields returns the fields named by the last finalize rejection.
func (w *Workbench) MissingFields() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.missing...)
}

// Highlights marks the draft's inputs for display.
func (w *Workbench) Highlights() map[string]shield.Highlight {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return nil
	}
	return shield.Highlights(*w.draft, w.missing)
}

// Finalize submits the current draft. A draft that fails local validation is
// rejected without contacting the service. A service rejection for missing
// fields returns a non-OK outcome and keeps the draft for correction. On
// success the draft is consumed and the result becomes current.
func (w *Workbench) Finalize(ctx context.Context) (*dealapi.FinalizeOutcome, error) {
	w.mu.Lock()
	if w.draft == nil {
		w.mu.Unlock()
		return nil, ErrNoDraft
	}
	d := *w.draft
	w.missing = nil
	w.mu.Unlock()

	if missing := shield.MissingRequired(d); len(missing) > 0 {
		return nil, &ValidationError{
			Fields:  missing,
			Message: "fill Purchase Price, ARV, and Rehab Budget before analyzing",
		}
	}

	var out *dealapi.FinalizeOutcome
	err := w.guard.Do(ctx, ActionFinalize, func(ctx context.Context) error {
		var err error
		out, err = w.client.FinalizeAndAnalyze(ctx, d)
		return err
	})
	if err != nil {
		zap.L().Warn("workbench: finalize failed", zap.Error(err))
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !out.OK {
		w.missing = append([]string(nil), out.MissingFields...)
		zap.L().Info("workbench: finalize rejected", zap.Strings("missing_fields", out.MissingFields))
		return out, nil
	}

	w.meta = model.NewExportMeta(d, w.listingURL, w.manualAddress, w.financing)
	w.result = out.Result
	w.draft = nil
	zap.L().Info("workbench: finalized",
		zap.String("verdict", string(out.Result.Headline())),
		zap.String("best_strategy", string(out.Result.BestStrategy)),
	)
	return out, nil
}

// ManualInput is the legacy manual-entry form.
type ManualInput struct {
	PurchasePrice  float64
	ARV            float64
	RehabBudget    float64
	EstMonthlyRent *float64
}

// AnalyzeManual runs the legacy manual analysis.
func (w *Workbench) AnalyzeManual(ctx context.Context, in ManualInput) (*model.AnalyzeResult, error) {
	if !(in.PurchasePrice > 0 && in.ARV > 0 && in.RehabBudget >= 0) {
		return nil, &ValidationError{Message: "enter valid Purchase Price, ARV, and Rehab Budget"}
	}

	req := model.AnalyzeRequest{
		PurchasePrice:  in.PurchasePrice,
		ARV:            in.ARV,
		RehabBudget:    in.RehabBudget,
		EstMonthlyRent: in.EstMonthlyRent,
	}

	var res *model.AnalyzeResult
	err := w.guard.Do(ctx, ActionAnalyze, func(ctx context.Context) error {
		var err error
		res, err = w.client.Analyze(ctx, req)
		return err
	})
	if err != nil {
		zap.L().Warn("workbench: analyze failed", zap.Error(err))
		return nil, err
	}

	snapshot := model.Draft{
		PurchasePrice:  model.Known(in.PurchasePrice, model.ConfidenceHigh),
		ARV:            model.Known(in.ARV, model.ConfidenceHigh),
		RehabBudget:    model.Known(in.RehabBudget, model.ConfidenceHigh),
		EstMonthlyRent: model.Field[float64]{}.WithValue(in.EstMonthlyRent),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.meta = model.NewExportMeta(snapshot, w.listingURL, w.manualAddress, w.financing)
	w.result = res
	return res, nil
}

// LoadResult adopts a result produced elsewhere, with the meta to export it
// with.
func (w *Workbench) LoadResult(r *model.AnalyzeResult, meta model.ExportMeta) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = r
	w.meta = meta
}

// Result returns the current result, or nil.
func (w *Workbench) Result() *model.AnalyzeResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Meta returns the export meta snapshot of the current result.
func (w *Workbench) Meta() model.ExportMeta {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meta
}

// ExportLenderReport renders the lender report for the current result into
// out. A locked gate fails with ErrSuppressed without contacting the service.
func (w *Workbench) ExportLenderReport(ctx context.Context, out io.Writer) (int64, error) {
	w.mu.Lock()
	res, meta := w.result, w.meta
	w.mu.Unlock()

	if res == nil {
		return 0, ErrNoResult
	}
	if !shield.NewGate(res).Permits(shield.OutputLenderReport) {
		return 0, eris.Wrap(ErrSuppressed, shield.OutputLenderReport.DisplayName())
	}

	var n int64
	err := w.guard.Do(ctx, ActionExport, func(ctx context.Context) error {
		var err error
		n, err = w.client.ExportLenderReport(ctx, dealapi.ExportRequest{Result: res, Meta: meta}, out)
		return err
	})
	if err != nil {
		zap.L().Warn("workbench: export failed", zap.Error(err))
		return n, err
	}

	zap.L().Info("workbench: lender report exported", zap.Int64("bytes", n))
	return n, nil
}
