package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCallSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/math" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req mathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Operation != "power" {
			t.Errorf("operation = %q, want power", req.Operation)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result":    8.0,
			"operation": "power",
			"success":   true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Call(context.Background(), "/math", mathRequest{Operation: "power", Values: []float64{2, 3}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if string(result) != "8" {
		t.Fatalf("result = %s, want 8", result)
	}
}

func TestCallReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"result":    nil,
			"operation": "quadratic",
			"success":   false,
			"message":   "coefficient a must be non-zero",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "quadratic", Values: []float64{}})
	if err == nil {
		t.Fatal("expected error")
	}
	// A 400 carrying the usual envelope is a reported failure, not a
	// transport problem.
	var re *ReportedError
	if !errors.As(err, &re) {
		t.Fatalf("got %T (%v), want *ReportedError", err, err)
	}
	if !strings.Contains(re.Error(), "coefficient a must be non-zero") {
		t.Errorf("error lost service detail: %v", re)
	}
}

func TestCallEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result":    nil,
			"operation": "logarithm",
			"success":   false,
			"message":   "logarithm requires positive values",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "logarithm", Values: []float64{-1}})
	var re *ReportedError
	if !errors.As(err, &re) {
		t.Fatalf("got %T (%v), want *ReportedError", err, err)
	}
	if re.Operation != "logarithm" {
		t.Errorf("Operation = %q, want logarithm", re.Operation)
	}
	if !strings.Contains(re.Error(), "positive values") {
		t.Errorf("error lost message: %v", re)
	}
}

func TestCallServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "statistics", Values: []float64{1}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T (%v), want *TransportError", err, err)
	}
	if !strings.Contains(te.Error(), "500") {
		t.Errorf("error does not mention status: %v", te)
	}
}

func TestCallUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := NewClient(srv.URL, WithTimeout(time.Second))
	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "statistics", Values: []float64{1}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T (%v), want *TransportError", err, err)
	}
}

func TestCallMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "statistics", Values: []float64{1}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T (%v), want *TransportError", err, err)
	}
}

func TestCallBreakerShortCircuits(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithBreaker(NewBreaker(2, time.Minute)))
	for i := 0; i < 2; i++ {
		if _, err := client.Call(context.Background(), "/math", mathRequest{Operation: "power", Values: []float64{2, 3}}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := client.Call(context.Background(), "/math", mathRequest{Operation: "power", Values: []float64{2, 3}})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %T (%v), want *TransportError", err, err)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error does not wrap ErrCircuitOpen: %v", err)
	}
	if hits != 2 {
		t.Fatalf("server hit %d times, want 2", hits)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestHealthDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, WithTimeout(time.Second))
	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected error from unreachable service")
	}
}
