package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/martinemde/relay/agent"
	"github.com/martinemde/relay/gateway"
	"github.com/martinemde/relay/remote"
	"github.com/martinemde/relay/toolserver"
)

// sequenceGateway replays a fixed series of responses and records the
// tool results it was shown.
type sequenceGateway struct {
	responses []*gateway.Response
	calls     int
	seen      [][]gateway.Message
}

func (g *sequenceGateway) Complete(_ context.Context, req gateway.Request) (*gateway.Response, error) {
	g.seen = append(g.seen, req.Messages)
	if g.calls >= len(g.responses) {
		return nil, &gateway.ServerError{}
	}
	resp := g.responses[g.calls]
	g.calls++
	return resp, nil
}

func (g *sequenceGateway) Stream(ctx context.Context, req gateway.Request) (<-chan gateway.StreamEvent, error) {
	resp, err := g.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan gateway.StreamEvent, 1)
	ch <- gateway.StreamEvent{Type: gateway.StreamFinish, Response: resp}
	close(ch)
	return ch, nil
}

func assistantToolCall(id, name, args string) *gateway.Response {
	return &gateway.Response{
		Message: gateway.Message{
			Role:    gateway.RoleAssistant,
			Content: []gateway.ContentPart{gateway.ToolCallPart(id, name, json.RawMessage(args))},
		},
		FinishReason: gateway.FinishReason{Reason: "tool_calls"},
	}
}

func assistantText(text string) *gateway.Response {
	return &gateway.Response{
		Message:      gateway.AssistantMessage(text),
		FinishReason: gateway.FinishReason{Reason: "stop"},
	}
}

func newToolService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(toolserver.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func newRegistry(t *testing.T, client *remote.Client) *agent.Registry {
	t.Helper()
	registry := agent.NewRegistry()
	for _, spec := range remote.Toolset(client) {
		if err := registry.Register(spec); err != nil {
			t.Fatalf("register %s: %v", spec.Name, err)
		}
	}
	return registry
}

// The full round trip: the model asks for statistics over HTTP, the
// real tool service computes them, and the formatted result is folded
// back into the conversation before the final answer.
func TestLoopAgainstRealToolService(t *testing.T) {
	srv := newToolService(t)
	gw := &sequenceGateway{responses: []*gateway.Response{
		assistantToolCall("call-1", "http_math_statistics", `{"values": [1, 2, 3, 4, 5]}`),
		assistantText("The mean is 3.0."),
	}}

	loop := agent.NewLoop(gw, newRegistry(t, remote.NewClient(srv.URL)), nil)
	conv := agent.NewConversation()

	result, err := loop.Run(context.Background(), conv, "What is the mean of 1..5?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Converged || result.Answer != "The mean is 3.0." {
		t.Fatalf("result = %+v", result)
	}

	// The second model call must have seen the formatted tool result.
	if len(gw.seen) != 2 {
		t.Fatalf("model called %d times, want 2", len(gw.seen))
	}
	second := gw.seen[1]
	if len(second) != 3 {
		t.Fatalf("second request has %d messages, want 3", len(second))
	}
	toolMsg := second[2]
	if toolMsg.Role != gateway.RoleTool {
		t.Fatalf("message 2 role = %s", toolMsg.Role)
	}
	content := toolMsg.Content[0].ToolResult.Content
	if !strings.Contains(content, "Mean: 3.0000") {
		t.Errorf("tool result missing formatted mean:\n%s", content)
	}
	if !strings.Contains(content, "Count: 5") {
		t.Errorf("tool result missing count:\n%s", content)
	}
}

// A dead tool service must not kill the turn: the transport error is
// folded into the conversation and the model gets to react to it.
func TestLoopFoldsTransportFailure(t *testing.T) {
	srv := newToolService(t)
	url := srv.URL
	srv.Close()

	gw := &sequenceGateway{responses: []*gateway.Response{
		assistantToolCall("call-1", "http_text_analyze", `{"text": "hello"}`),
		assistantText("The text service seems to be down."),
	}}

	loop := agent.NewLoop(gw, newRegistry(t, remote.NewClient(url)), nil)
	result, err := loop.Run(context.Background(), agent.NewConversation(), "Analyze hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Converged {
		t.Fatal("turn did not converge")
	}

	toolMsg := gw.seen[1][2]
	tr := toolMsg.Content[0].ToolResult
	if !tr.IsError {
		t.Error("transport failure not flagged as error result")
	}
	if !strings.Contains(tr.Content, "Tool error") {
		t.Errorf("content = %q", tr.Content)
	}
}

// An operation the service rejects comes back as a reported failure,
// also folded into the conversation rather than surfaced as a loop error.
func TestLoopFoldsReportedFailure(t *testing.T) {
	srv := newToolService(t)

	gw := &sequenceGateway{responses: []*gateway.Response{
		assistantToolCall("call-1", "http_math_advanced", `{"operation": "factorial", "values": [-3]}`),
		assistantText("Factorials of negative numbers are undefined."),
	}}

	client := remote.NewClient(srv.URL)
	loop := agent.NewLoop(gw, newRegistry(t, client), nil)
	result, err := loop.Run(context.Background(), agent.NewConversation(), "What is (-3)!?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Converged {
		t.Fatal("turn did not converge")
	}

	tr := gw.seen[1][2].Content[0].ToolResult
	if !tr.IsError {
		t.Error("reported failure not flagged as error result")
	}
	if !strings.Contains(tr.Content, "non-negative") {
		t.Errorf("content lost service message: %q", tr.Content)
	}

	// The typed error taxonomy is observable directly on the client too.
	_, callErr := client.Call(context.Background(), "/math", map[string]any{
		"operation": "factorial",
		"values":    []float64{-3},
	})
	var re *remote.ReportedError
	if !errors.As(callErr, &re) {
		t.Fatalf("got %T (%v), want *ReportedError", callErr, callErr)
	}
}
