package http

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/observability"
	"github.com/aretw0/remap/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodyBytes bounds request bodies; a query is a handful of integers.
const maxBodyBytes = 1 << 20

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// QueryRequest is the body of POST /evaluate and POST /minimum.
type QueryRequest struct {
	Seeds  []int64         `json:"seeds,omitempty"`
	Mode   domain.SeedMode `json:"mode,omitempty"`
	Ranges []domain.Range  `json:"ranges,omitempty"`
}

// StageView is the JSON shape of a stage.
type StageView struct {
	ID    string         `json:"id"`
	Next  string         `json:"next"`
	Rules []domain.Range `json:"rules"`
}

// Server serves one pipeline over HTTP.
type Server struct {
	Engine  ports.QueryEngine
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records queries and exposes GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.QueryEngine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/stages", s.GetStages)
	r.Get("/locate/{point}", s.Locate)
	r.Post("/evaluate", s.Evaluate)
	r.Post("/minimum", s.Minimum)

	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>remap API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	seeds, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	out, err := s.Engine.Evaluate(r.Context(), seeds)
	s.observe("evaluate", start, err)
	if err != nil {
		s.writeError(w, "Evaluate", err)
		return
	}
	if out == nil {
		out = []domain.Range{}
	}
	s.writeJSON(w, "Evaluate", map[string]any{"ranges": out})
}

// Minimum handles the POST /minimum request.
func (s *Server) Minimum(w http.ResponseWriter, r *http.Request) {
	seeds, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	lowest, err := s.Engine.Minimum(r.Context(), seeds)
	s.observe("minimum", start, err)
	if err != nil {
		s.writeError(w, "Minimum", err)
		return
	}
	s.writeJSON(w, "Minimum", map[string]int64{"minimum": lowest})
}

// Locate handles the GET /locate/{point} request.
func (s *Server) Locate(w http.ResponseWriter, r *http.Request) {
	point, err := strconv.ParseInt(chi.URLParam(r, "point"), 10, 64)
	if err != nil {
		s.writeError(w, "Locate", fmt.Errorf("%w: point must be an integer", domain.ErrMalformedInput))
		return
	}

	start := time.Now()
	location, err := s.Engine.Locate(point)
	s.observe("locate", start, err)
	if err != nil {
		s.writeError(w, "Locate", err)
		return
	}
	s.writeJSON(w, "Locate", map[string]int64{"point": point, "location": location})
}

// GetStages handles the GET /stages request.
func (s *Server) GetStages(w http.ResponseWriter, r *http.Request) {
	stages := s.Engine.Inspect()
	views := make([]StageView, 0, len(stages))
	for _, st := range stages {
		views = append(views, StageView{ID: st.ID, Next: st.Next, Rules: st.Rules})
	}
	s.writeJSON(w, "GetStages", views)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "GetHealth", map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := loadSpec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}

	s.writeJSON(w, "GetInfo", map[string]string{
		"app":         "remap-http",
		"version":     strings.TrimSpace(remap.Version),
		"api_version": apiVersion,
	})
}

// decodeQuery validates the body against the QueryRequest schema and converts it into seed ranges.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) ([]domain.Range, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, "decode", fmt.Errorf("%w: %v", domain.ErrMalformedInput, err))
		return nil, false
	}

	if err := validateBody("QueryRequest", body); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		s.writeError(w, "decode", fmt.Errorf("%w: %v", domain.ErrMalformedInput, err))
		return nil, false
	}

	var req QueryRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		s.writeError(w, "decode", fmt.Errorf("%w: %v", domain.ErrMalformedInput, err))
		return nil, false
	}
	if req.Mode == "" {
		req.Mode = domain.SeedPairs
	}

	seeds, err := domain.SeedRanges(req.Seeds, req.Mode)
	if err != nil {
		s.writeError(w, "decode", err)
		return nil, false
	}
	return append(seeds, req.Ranges...), true
}

func validateBody(schemaName string, body []byte) error {
	spec, err := loadSpec()
	if err != nil {
		return err
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("body is not JSON: %w", err)
	}
	return ref.Value.VisitJSON(value)
}

func (s *Server) observe(kind string, start time.Time, err error) {
	if s.Metrics != nil {
		s.Metrics.ObserveQuery(kind, time.Since(start), err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, op string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error(op+" response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Debug(op+" rejected", "error", err, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingStage), errors.Is(err, domain.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
