package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/martinemde/relay/gateway"
)

// Config holds configuration for a Loop.
type Config struct {
	Model              string `json:"model,omitempty"`                 // gateway default when empty
	MaxIterations      int    `json:"max_iterations"`                  // model calls per turn; 0 = default
	ToolResultMaxChars int    `json:"tool_result_max_chars,omitempty"` // 0 = default
	Streaming          bool   `json:"streaming"`                       // emit text deltas as they arrive
	SystemPrompt       string `json:"system_prompt,omitempty"`
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:      10,
		ToolResultMaxChars: DefaultToolResultMaxChars,
	}
}

// Result is the outcome of one turn. When the iteration cap was hit, Run
// returns the Result together with ErrMaxIterations and Converged is
// false; the message transcript is still populated so the caller can
// inspect the attempted reasoning trace.
type Result struct {
	ThreadID   string            `json:"thread_id"`
	Answer     string            `json:"answer"`
	Converged  bool              `json:"converged"`
	Iterations int               `json:"iterations"`
	Messages   []gateway.Message `json:"messages"`
	Usage      gateway.Usage     `json:"usage"`
}

// Loop orchestrates one conversation turn: model call, tool dispatch,
// result fold-back, repeat. All collaborators are injected.
type Loop struct {
	gw       gateway.ModelGateway
	registry *Registry
	config   Config
	emitter  *EventEmitter
}

// NewLoop creates a Loop with the given gateway, registry, and optional
// configuration (nil selects defaults).
func NewLoop(gw gateway.ModelGateway, registry *Registry, config *Config) *Loop {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.ToolResultMaxChars <= 0 {
		cfg.ToolResultMaxChars = DefaultToolResultMaxChars
	}
	return &Loop{gw: gw, registry: registry, config: cfg}
}

// SetEmitter attaches an event emitter for host integration. Optional;
// without one the loop runs silently.
func (l *Loop) SetEmitter(e *EventEmitter) { l.emitter = e }

func (l *Loop) emit(kind EventKind, data map[string]any) {
	if l.emitter != nil {
		l.emitter.Emit(kind, data)
	}
}

// Run processes one user query through the agent loop on the given
// conversation. It returns the final answer on convergence; on iteration
// cap it returns the partial Result alongside ErrMaxIterations; gateway
// failures and invalid messages are terminal errors for the turn.
func (l *Loop) Run(ctx context.Context, conv *Conversation, query string) (*Result, error) {
	if conv == nil {
		return nil, fmt.Errorf("run: nil conversation")
	}

	if err := conv.Append(gateway.UserMessage(query)); err != nil {
		return nil, err
	}
	l.emit(EventTurnStart, map[string]any{"query": query})

	toolDefs := l.registry.Definitions()
	var totalUsage gateway.Usage

	for iter := 0; iter < l.config.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			l.emit(EventError, map[string]any{"error": ctx.Err().Error()})
			return nil, ctx.Err()
		default:
		}

		messages := conv.Snapshot()
		if l.config.SystemPrompt != "" {
			messages = append([]gateway.Message{gateway.SystemMessage(l.config.SystemPrompt)}, messages...)
		}

		req := gateway.Request{
			Model:      l.config.Model,
			Messages:   messages,
			ToolDefs:   toolDefs,
			ToolChoice: &gateway.ToolChoice{Mode: "auto"},
		}

		l.emit(EventModelCall, map[string]any{"iteration": iter + 1})
		resp, err := l.callModel(ctx, req)
		if err != nil {
			l.emit(EventError, map[string]any{"error": err.Error()})
			return nil, fmt.Errorf("model gateway: %w", err)
		}
		totalUsage = totalUsage.Add(resp.Usage)

		if err := conv.Append(resp.Message); err != nil {
			return nil, err
		}

		calls := resp.ToolCallRequests()
		if len(calls) == 0 {
			answer := resp.Text()
			l.emit(EventAssistantText, map[string]any{"text": answer})
			l.emit(EventTurnEnd, map[string]any{"converged": true})
			return &Result{
				ThreadID:   conv.ThreadID(),
				Answer:     answer,
				Converged:  true,
				Iterations: iter + 1,
				Messages:   conv.Snapshot(),
				Usage:      totalUsage,
			}, nil
		}

		results := l.dispatchAll(ctx, calls)

		// Discard results from a cancelled turn so the conversation only
		// reflects fully completed rounds.
		if ctx.Err() != nil {
			l.emit(EventError, map[string]any{"error": ctx.Err().Error()})
			return nil, ctx.Err()
		}

		for _, res := range results {
			msg := gateway.ToolResultMessage(res.ToolCallID, res.Content, res.IsError)
			if err := conv.Append(msg); err != nil {
				return nil, err
			}
		}
	}

	l.emit(EventWarning, map[string]any{"message": "iteration cap reached before a final answer"})
	l.emit(EventTurnEnd, map[string]any{"converged": false})
	return &Result{
		ThreadID:   conv.ThreadID(),
		Converged:  false,
		Iterations: l.config.MaxIterations,
		Messages:   conv.Snapshot(),
		Usage:      totalUsage,
	}, fmt.Errorf("turn did not converge after %d iterations: %w", l.config.MaxIterations, ErrMaxIterations)
}

// callModel performs one gateway call, streaming deltas through the
// emitter when streaming is enabled.
func (l *Loop) callModel(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	if !l.config.Streaming {
		return l.gw.Complete(ctx, req)
	}

	ch, err := l.gw.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp *gateway.Response
	for event := range ch {
		switch event.Type {
		case gateway.TextDelta:
			l.emit(EventTextDelta, map[string]any{"delta": event.Delta})
		case gateway.StreamError:
			return nil, event.Error
		case gateway.StreamFinish:
			resp = event.Response
		}
	}
	if resp == nil {
		return nil, &gateway.ModelError{Message: "stream ended without a final response"}
	}
	return resp, nil
}

// dispatchAll executes the tool calls of one model turn concurrently.
// Calls within a turn are independent, so they all start immediately; the
// loop proceeds only after every call has completed or failed. Identical
// duplicate calls are executed independently, without caching.
func (l *Loop) dispatchAll(ctx context.Context, calls []gateway.ToolCall) []gateway.ToolResultData {
	results := make([]gateway.ToolResultData, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, tc gateway.ToolCall) {
			defer wg.Done()
			results[idx] = l.dispatchOne(ctx, tc)
		}(i, call)
	}
	wg.Wait()
	return results
}

// dispatchOne runs a single tool call: resolve, invoke, truncate. Every
// failure mode is normalized into an error-flagged result for the model;
// nothing escapes the loop.
func (l *Loop) dispatchOne(ctx context.Context, call gateway.ToolCall) gateway.ToolResultData {
	l.emit(EventToolCallStart, map[string]any{
		"tool_name": call.Name,
		"call_id":   call.ID,
	})

	spec, err := l.registry.Resolve(call.Name)
	if err != nil {
		msg := fmt.Sprintf("Unknown tool: %s. Available tools: %v", call.Name, l.registry.Names())
		l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": msg})
		return gateway.ToolResultData{ToolCallID: call.ID, Content: msg, IsError: true}
	}

	output, err := spec.Invoke(ctx, call.Arguments)
	if err != nil {
		msg := fmt.Sprintf("Tool error (%s): %v", call.Name, err)
		l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": msg})
		return gateway.ToolResultData{ToolCallID: call.ID, Content: msg, IsError: true}
	}

	truncated := TruncateToolResult(output, l.config.ToolResultMaxChars)
	l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "output": output})
	return gateway.ToolResultData{ToolCallID: call.ID, Content: truncated, IsError: false}
}
