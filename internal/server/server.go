// Package server exposes the local, read-only derivations of the deal shield
// over HTTP so a browser front-end can reuse them.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/flipforge/dealshield/internal/model"
	"github.com/flipforge/dealshield/internal/shield"
)

// maxBodyBytes bounds request bodies. Results with long stress grids fit well
// inside it.
const maxBodyBytes = 1 << 20

// ValidateResponse is the body returned by POST /api/validate.
type ValidateResponse struct {
	CanFinalize   bool                        `json:"can_finalize"`
	Missing       []string                    `json:"missing"`
	Highlights    map[string]shield.Highlight `json:"highlights"`
	SourceBlocked bool                        `json:"source_blocked"`
}

// ViewResponse is the body returned by POST /api/view.
type ViewResponse struct {
	shield.View
	StressMessage string `json:"stress_message"`
}

// NewRouter builds the HTTP handler. Cross-origin requests are accepted only
// from allowedOrigins.
func NewRouter(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", handleValidate)
		r.Post("/view", handleView)
	})

	return r
}

// NewHTTPServer wraps the router in an http.Server listening on addr.
func NewHTTPServer(addr string, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleValidate(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if !decode(w, r, &d) {
		return
	}

	missing := shield.MissingRequired(d)
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		CanFinalize:   len(missing) == 0,
		Missing:       missing,
		Highlights:    shield.Highlights(d, nil),
		SourceBlocked: d.SourceBlocked(),
	})
}

func handleView(w http.ResponseWriter, r *http.Request) {
	var res model.AnalyzeResult
	if !decode(w, r, &res) {
		return
	}

	v := shield.Build(&res)
	writeJSON(w, http.StatusOK, ViewResponse{
		View:          v,
		StressMessage: v.Stress.Message(),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		zap.L().Debug("server: invalid request body",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
