package gateway

import (
	"errors"
	"testing"
)

func TestGollmGatewayTranslateError(t *testing.T) {
	gw := &GollmGateway{provider: "openai"}

	tests := []struct {
		errMsg string
		check  func(error) bool
	}{
		{"401 Unauthorized", func(e error) bool { _, ok := e.(*AuthenticationError); return ok }},
		{"invalid api key", func(e error) bool { _, ok := e.(*AuthenticationError); return ok }},
		{"403 Forbidden", func(e error) bool { _, ok := e.(*AccessDeniedError); return ok }},
		{"404 not found", func(e error) bool { _, ok := e.(*NotFoundError); return ok }},
		{"429 rate limit exceeded", func(e error) bool { _, ok := e.(*RateLimitError); return ok }},
		{"context length exceeded", func(e error) bool { _, ok := e.(*ContextLengthError); return ok }},
		{"500 internal server error", func(e error) bool { _, ok := e.(*ServerError); return ok }},
		{"timeout waiting for response", func(e error) bool { _, ok := e.(*RequestTimeoutError); return ok }},
		{"content filter triggered", func(e error) bool { _, ok := e.(*ContentFilterError); return ok }},
		{"something unknown", func(e error) bool { _, ok := e.(*ProviderError); return ok }},
	}

	for _, tt := range tests {
		err := gw.translateError(errors.New(tt.errMsg))
		if err == nil {
			t.Errorf("expected non-nil error for %q", tt.errMsg)
			continue
		}
		if !tt.check(err) {
			t.Errorf("for %q: unexpected error type %T", tt.errMsg, err)
		}
	}
}

func TestParseToolCalls(t *testing.T) {
	text := `[{"name": "http_math_statistics", "arguments": {"values": [1, 2, 3, 4, 5]}}]`
	calls := parseToolCalls(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(calls))
	}
	if calls[0].Name != "http_math_statistics" {
		t.Errorf("expected name %q, got %q", "http_math_statistics", calls[0].Name)
	}
	if calls[0].ID == "" {
		t.Error("expected generated call ID")
	}
}

func TestParseToolCallsNone(t *testing.T) {
	if calls := parseToolCalls("The mean of your values is 3."); calls != nil {
		t.Errorf("expected no tool calls, got %d", len(calls))
	}
}

func TestBuildResponseWithToolCalls(t *testing.T) {
	gw := &GollmGateway{provider: "openai", model: "gpt-4o-mini"}
	text := `I'll compute that. [{"name": "http_math_statistics", "arguments": {"values": [1, 2, 3]}}]`

	resp := gw.buildResponse(Request{}, text)
	if resp.FinishReason.Reason != "tool_calls" {
		t.Errorf("expected finish reason tool_calls, got %q", resp.FinishReason.Reason)
	}
	calls := resp.ToolCallRequests()
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(calls))
	}
	if resp.Text() != "I'll compute that." {
		t.Errorf("expected cleaned text, got %q", resp.Text())
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("expected model fallback, got %q", resp.Model)
	}
}

func TestBuildResponsePlainText(t *testing.T) {
	gw := &GollmGateway{provider: "openai"}
	resp := gw.buildResponse(Request{Model: "gpt-4o"}, "The answer is 42.")
	if resp.FinishReason.Reason != "stop" {
		t.Errorf("expected finish reason stop, got %q", resp.FinishReason.Reason)
	}
	if resp.Text() != "The answer is 42." {
		t.Errorf("unexpected text: %q", resp.Text())
	}
}

func TestEstimateTokens(t *testing.T) {
	req := Request{
		Messages: []Message{UserMessage("Hello world, this is a test message.")},
	}
	if tokens := estimateTokens(req); tokens <= 0 {
		t.Errorf("expected positive token estimate, got %d", tokens)
	}
}

func TestEstimateTokensEmpty(t *testing.T) {
	if tokens := estimateTokens(Request{}); tokens != 10 {
		t.Errorf("expected default token estimate of 10, got %d", tokens)
	}
}
