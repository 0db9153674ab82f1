// Package dealapi provides a client for the deal analysis service.
package dealapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/flipforge/dealshield/internal/model"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// Client defines the analysis service operations. Calls are never retried.
type Client interface {
	// Analyze runs the legacy manual analysis.
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResult, error)
	// DraftFromURL asks the service to extract a draft from a listing URL.
	DraftFromURL(ctx context.Context, listingURL string) (*model.Draft, error)
	// FinalizeAndAnalyze submits a draft. A 422 is reported through the
	// outcome, not as an error.
	FinalizeAndAnalyze(ctx context.Context, d model.Draft) (*FinalizeOutcome, error)
	// ExportLenderReport renders the lender report and streams it to w.
	ExportLenderReport(ctx context.Context, req ExportRequest, w io.Writer) (int64, error)
}

// FinalizeOutcome is the result of a finalize call. When OK is false the
// service rejected the draft and MissingFields names the offending inputs.
type FinalizeOutcome struct {
	OK            bool
	Result        *model.AnalyzeResult
	MissingFields []string
}

// ExportRequest is the body of an export call.
type ExportRequest struct {
	Result *model.AnalyzeResult `json:"result"`
	Meta   model.ExportMeta     `json:"meta"`
}

type draftResponse struct {
	Draft model.Draft `json:"draft"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default service base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter paces outbound calls. Calls wait for a token; none are dropped.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an analysis service client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResult, error) {
	status, body, err := c.postJSON(ctx, "/api/analyze", req)
	if err != nil {
		return nil, eris.Wrap(err, "dealapi: analyze")
	}
	if !is2xx(status) {
		return nil, newStatusError("analyze", status, body)
	}

	var result model.AnalyzeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "dealapi: unmarshal analyze response")
	}
	return &result, nil
}

func (c *httpClient) DraftFromURL(ctx context.Context, listingURL string) (*model.Draft, error) {
	status, body, err := c.postJSON(ctx, "/api/draft-from-url", map[string]string{"url": listingURL})
	if err != nil {
		return nil, eris.Wrap(err, "dealapi: draft from url")
	}
	if !is2xx(status) {
		return nil, newStatusError("draft", status, body)
	}

	var resp draftResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "dealapi: unmarshal draft response")
	}
	return &resp.Draft, nil
}

func (c *httpClient) FinalizeAndAnalyze(ctx context.Context, d model.Draft) (*FinalizeOutcome, error) {
	status, body, err := c.postJSON(ctx, "/api/finalize-and-analyze", d)
	if err != nil {
		return nil, eris.Wrap(err, "dealapi: finalize")
	}

	if status == http.StatusUnprocessableEntity {
		return &FinalizeOutcome{OK: false, MissingFields: parseMissingFields(body)}, nil
	}
	if !is2xx(status) {
		return nil, newStatusError("finalize", status, body)
	}

	var result model.AnalyzeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "dealapi: unmarshal finalize response")
	}
	return &FinalizeOutcome{OK: true, Result: &result}, nil
}

func (c *httpClient) ExportLenderReport(ctx context.Context, req ExportRequest, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, "/api/export/lender-report", req)
	if err != nil {
		return 0, eris.Wrap(err, "dealapi: export lender report")
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		se := newStatusError("export", resp.StatusCode, body)
		se.Message = exportMessage(body)
		return 0, se
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, eris.Wrap(err, "dealapi: write lender report")
	}
	return n, nil
}

// postJSON sends body and returns the status code and full response body.
func (c *httpClient) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	resp, err := c.send(ctx, path, payload)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, eris.Wrap(err, "read response body")
	}
	return resp.StatusCode, body, nil
}

func (c *httpClient) send(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "marshal request")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("dealapi: request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, eris.Wrap(err, "send request")
	}

	zap.L().Debug("dealapi: response",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
