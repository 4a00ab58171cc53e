// Package toolserver implements the math and text tool service: a small
// JSON-over-HTTP API exposing statistics, equation solving, advanced
// math, and text processing operations behind a uniform response
// envelope.
package toolserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	serviceName    = "Math-Text-Analysis Tool Server"
	serviceVersion = "1.0.0"
)

type mathRequest struct {
	Operation string     `json:"operation"`
	Values    *[]float64 `json:"values"`
	A         *float64   `json:"a"`
	B         *float64   `json:"b"`
	C         *float64   `json:"c"`
}

type textRequest struct {
	Operation      string `json:"operation"`
	Text           string `json:"text"`
	ExtractionType string `json:"extraction_type"`
}

// response is the envelope wrapping every operation result.
type response struct {
	Result    any    `json:"result"`
	Operation string `json:"operation"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
}

// Server handles tool service requests.
type Server struct {
	log *slog.Logger
}

// NewRouter builds the service's HTTP routes.
func NewRouter(log *slog.Logger) http.Handler {
	s := &Server{log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/math", s.handleMath)
	r.Post("/text", s.handleText)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        serviceName,
		"version":     serviceVersion,
		"description": "HTTP math and text processing tools",
		"endpoints": map[string]string{
			"math":   "/math",
			"text":   "/text",
			"health": "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMath(w http.ResponseWriter, r *http.Request) {
	var req mathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Values == nil {
		writeFailure(w, req.Operation, "values field is required")
		return
	}

	var result any
	var err error
	switch req.Operation {
	case "statistics":
		result, err = statistics(*req.Values)
	case "quadratic":
		if req.A == nil || req.B == nil || req.C == nil {
			writeFailure(w, req.Operation, "quadratic equation requires a, b, c coefficients")
			return
		}
		result, err = quadratic(*req.A, *req.B, *req.C)
	case "factorial", "logarithm", "trigonometry", "power":
		result, err = advancedMath(req.Operation, *req.Values)
	default:
		writeFailure(w, req.Operation, "unknown math operation: "+req.Operation)
		return
	}
	if err != nil {
		writeFailure(w, req.Operation, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response{Result: result, Operation: req.Operation, Success: true})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var result string
	switch req.Operation {
	case "analyze":
		// Analysis results travel as a JSON-encoded string so the
		// /text result type stays uniform across operations.
		encoded, err := json.MarshalIndent(analyzeText(req.Text), "", "  ")
		if err != nil {
			writeFailure(w, req.Operation, err.Error())
			return
		}
		result = string(encoded)

	case "transform":
		if req.ExtractionType == "" {
			writeFailure(w, req.Operation, "transform operation requires a transformation type")
			return
		}
		transformed, err := transformText(req.Text, req.ExtractionType)
		if err != nil {
			writeFailure(w, req.Operation, err.Error())
			return
		}
		result = transformed

	case "extract":
		if req.ExtractionType == "" {
			writeFailure(w, req.Operation, "extract operation requires an extraction type")
			return
		}
		matches, err := extractInformation(req.Text, req.ExtractionType)
		if err != nil {
			writeFailure(w, req.Operation, err.Error())
			return
		}
		if matches == nil {
			matches = []string{}
		}
		encoded, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			writeFailure(w, req.Operation, err.Error())
			return
		}
		result = string(encoded)

	default:
		writeFailure(w, req.Operation, "unknown text operation: "+req.Operation)
		return
	}

	writeJSON(w, http.StatusOK, response{Result: result, Operation: req.Operation, Success: true})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFailure(w, "", "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeFailure(w http.ResponseWriter, operation, message string) {
	writeJSON(w, http.StatusBadRequest, response{
		Operation: operation,
		Success:   false,
		Message:   message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
