package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool call round trip.
const DefaultTimeout = 10 * time.Second

// envelope is the tool service response format.
type envelope struct {
	Result    json.RawMessage `json:"result"`
	Operation string          `json:"operation"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
}

// Client executes tool calls against one tool service. It holds no
// mutable state beyond the connection pool and is safe for concurrent
// use across independent tool calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *Breaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker attaches a circuit breaker to all outgoing calls.
func WithBreaker(b *Breaker) ClientOption {
	return func(c *Client) { c.breaker = b }
}

// NewClient creates a client for the tool service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Call POSTs payload as JSON to path and returns the result payload from
// the response envelope. Failures are always typed: *TransportError for
// network/timeout/non-2xx outcomes, *ReportedError when the service
// answered but signaled failure.
func (c *Client) Call(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	var result json.RawMessage
	call := func() error {
		var err error
		result, err = c.doCall(ctx, path, payload)
		return err
	}

	if c.breaker == nil {
		err := call()
		return result, err
	}

	err := c.breaker.Execute(call)
	if err == ErrCircuitOpen {
		return nil, &TransportError{Message: "service unavailable", Cause: err}
	}
	return result, err
}

func (c *Client) doCall(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tool arguments: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("POST %s failed", path), Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("read response from %s", path), Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Operation-level failures arrive as a 4xx with the usual
		// envelope. Surface those as reported errors so callers can
		// tell a bad request apart from a broken service.
		var env envelope
		if err := json.Unmarshal(respBody, &env); err == nil && env.Operation != "" && !env.Success {
			return nil, &ReportedError{Operation: env.Operation, Message: env.Message}
		}
		detail := strings.TrimSpace(string(respBody))
		if len(detail) > 300 {
			detail = detail[:300]
		}
		return nil, &TransportError{
			Message: fmt.Sprintf("POST %s returned status %d: %s", path, resp.StatusCode, detail),
		}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("malformed envelope from %s", path), Cause: err}
	}
	if !env.Success {
		return nil, &ReportedError{Operation: env.Operation, Message: env.Message}
	}
	return env.Result, nil
}

// Health checks the service's /health endpoint, returning nil when it
// answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Message: "health check failed", Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &TransportError{Message: fmt.Sprintf("health check returned status %d", resp.StatusCode)}
	}
	return nil
}
