package dealapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/flipforge/dealshield/internal/model"
)

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 120000.0, body["purchase_price"], 0.001)
		assert.Contains(t, body, "est_monthly_rent")
		assert.Nil(t, body["est_monthly_rent"])
		assert.NotContains(t, body, "closing_cost_pct")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"overall_verdict":"BUY","best_strategy":"flip","flip_verdict":"BUY","net_profit":30000,"verdictReason":"legacy reason"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.Analyze(context.Background(), model.AnalyzeRequest{PurchasePrice: 120000, ARV: 220000, RehabBudget: 35000})

	require.NoError(t, err)
	assert.Equal(t, model.VerdictBuy, got.OverallVerdict)
	assert.InDelta(t, 30000.0, got.NetProfit, 0.001)
	assert.Equal(t, "legacy reason", got.VerdictReason)
}

func TestAnalyze_HTTPError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Analyze(context.Background(), model.AnalyzeRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, "API error 500: boom", UserMessage(err))
	assert.Equal(t, int32(1), calls.Load(), "failures are not retried")
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Analyze(context.Background(), model.AnalyzeRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestDraftFromURL_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/draft-from-url", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://www.zillow.com/homedetails/1", body["url"])

		w.Write([]byte(`{"draft":{
			"source":"SOURCE_BLOCKED",
			"url":"https://www.zillow.com/homedetails/1",
			"purchase_price":{"value":null,"confidence":"MISSING"},
			"arv":{"value":null,"confidence":"MISSING"},
			"rehab_budget":{"value":null,"confidence":"MISSING"},
			"est_monthly_rent":{"value":null,"confidence":"MISSING"},
			"holding_months":6,
			"notes":["blocked with 403"],
			"signals":[]
		}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	d, err := client.DraftFromURL(context.Background(), "https://www.zillow.com/homedetails/1")

	require.NoError(t, err)
	assert.True(t, d.SourceBlocked())
	assert.False(t, d.ARV.Has())
	require.NotNil(t, d.HoldingMonths)
	assert.Equal(t, 6, *d.HoldingMonths)
	assert.Equal(t, []string{"blocked with 403"}, d.Notes)
}

func TestDraftFromURL_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.DraftFromURL(context.Background(), "https://x")

	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "draft", se.Op)
	assert.Equal(t, "Draft API error 502: upstream down", UserMessage(err))
}

func TestFinalizeAndAnalyze_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/finalize-and-analyze", r.URL.Path)
		var d model.Draft
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		assert.InDelta(t, 150000.0, *d.PurchasePrice.Value, 0.001)
		assert.Equal(t, model.ConfidenceLow, d.ARV.Confidence)

		w.Write([]byte(`{"overall_verdict":"PASS","allowed_outputs":{"lender_report":false}}`))
	}))
	defer srv.Close()

	d := model.Draft{
		PurchasePrice: model.Known(150000.0, model.ConfidenceHigh),
		ARV:           model.Known(200000.0, model.ConfidenceLow),
		RehabBudget:   model.Known(20000.0, model.ConfidenceMedium),
	}

	client := NewClient(WithBaseURL(srv.URL))
	out, err := client.FinalizeAndAnalyze(context.Background(), d)

	require.NoError(t, err)
	require.True(t, out.OK)
	require.NotNil(t, out.Result)
	assert.Equal(t, model.VerdictPass, out.Result.OverallVerdict)
	require.NotNil(t, out.Result.AllowedOutputs)
	assert.False(t, out.Result.AllowedOutputs.LenderReport)
}

func TestFinalizeAndAnalyze_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"top level", `{"missing_fields":["arv","rehab_budget"]}`, []string{"arv", "rehab_budget"}},
		{"under detail", `{"detail":{"missing_fields":["purchase_price"]}}`, []string{"purchase_price"}},
		{"top level wins", `{"missing_fields":["arv"],"detail":{"missing_fields":["x"]}}`, []string{"arv"}},
		{"not a list", `{"missing_fields":"arv"}`, []string{}},
		{"detail is a string", `{"detail":"Unprocessable"}`, []string{}},
		{"not json", `oops`, []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(WithBaseURL(srv.URL))
			out, err := client.FinalizeAndAnalyze(context.Background(), model.Draft{})

			require.NoError(t, err, "422 is an outcome, not an error")
			assert.False(t, out.OK)
			assert.Nil(t, out.Result)
			assert.Equal(t, tt.want, out.MissingFields)
		})
	}
}

func TestFinalizeAndAnalyze_HardFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"maintenance"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	out, err := client.FinalizeAndAnalyze(context.Background(), model.Draft{})

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, `Finalize API error 503: {"detail":"maintenance"}`, UserMessage(err))
}

func TestExportLenderReport_Success(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.4 fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export/lender-report", r.URL.Path)
		var body map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "result")
		assert.Contains(t, body, "meta")

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	client := NewClient(WithBaseURL(srv.URL))
	n, err := client.ExportLenderReport(context.Background(), ExportRequest{Result: &model.AnalyzeResult{}}, &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(len(pdf)), n)
	assert.Equal(t, pdf, buf.Bytes())
}

func TestExportLenderReport_ErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Integrity gate: lender report suppressed"}`, "Integrity gate: lender report suppressed"},
		{"message", `{"message":"renderer offline"}`, "renderer offline"},
		{"detail wins", `{"detail":"d","message":"m"}`, "d"},
		{"structured detail", `{"detail":[{"loc":["body"]}]}`, ExportFallbackMessage},
		{"not json", `<html>502</html>`, ExportFallbackMessage},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var buf bytes.Buffer
			client := NewClient(WithBaseURL(srv.URL))
			_, err := client.ExportLenderReport(context.Background(), ExportRequest{}, &buf)

			require.Error(t, err)
			assert.Equal(t, tt.want, UserMessage(err))
			assert.Zero(t, buf.Len(), "nothing is written on failure")
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestExportLenderReport_WriteFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ExportLenderReport(context.Background(), ExportRequest{}, failingWriter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "write lender report")
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Analyze(ctx, model.AnalyzeRequest{})
	require.Error(t, err)
}

func TestWithLimiter_Paces(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithLimiter(rate.NewLimiter(rate.Every(50*time.Millisecond), 1)))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Analyze(context.Background(), model.AnalyzeRequest{})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := NewClient(WithHTTPClient(custom))
	hc := c.(*httpClient)
	assert.Equal(t, custom, hc.http)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
}
