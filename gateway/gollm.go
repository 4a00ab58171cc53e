package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmGateway implements ModelGateway on top of a gollm.LLM instance,
// translating between the gateway types and gollm's prompt API.
type GollmGateway struct {
	provider string
	model    string
	llm      gollm.LLM
}

// GollmOption configures a GollmGateway.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. When empty, gollm reads it from the
// provider's environment variable.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) { c.apiKey = key }
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) { c.maxTokens = n }
}

// WithTemperature sets the default temperature.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) { c.temperature = t }
}

// WithGollmOptions appends extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) { c.extraOpts = append(c.extraOpts, opts...) }
}

// NewGollmGateway creates a gateway for the given provider and model.
func NewGollmGateway(provider, model string, opts ...GollmOption) (*GollmGateway, error) {
	cfg := &gollmConfig{
		maxTokens:   4096,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retry is a decorator, never internal
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gollm LLM for provider %s: %w", provider, err)
	}

	return &GollmGateway{provider: provider, model: model, llm: llm}, nil
}

// NewGollmGatewayFromLLM wraps an existing gollm.LLM instance.
func NewGollmGatewayFromLLM(provider string, llm gollm.LLM) *GollmGateway {
	return &GollmGateway{provider: provider, llm: llm}
}

// Provider returns the provider identifier.
func (g *GollmGateway) Provider() string { return g.provider }

// Complete sends a blocking request and returns the full response.
func (g *GollmGateway) Complete(ctx context.Context, req Request) (*Response, error) {
	prompt := g.translateRequest(req)
	g.applyRequestOptions(req)

	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, g.translateError(err)
	}

	return g.buildResponse(req, text), nil
}

// Stream sends a streaming request and returns a channel of StreamEvents.
// Providers without native streaming fall back to a single buffered delta.
func (g *GollmGateway) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	prompt := g.translateRequest(req)
	g.applyRequestOptions(req)

	ch := make(chan StreamEvent, 64)

	if !g.llm.SupportsStreaming() {
		go func() {
			defer close(ch)
			ch <- StreamEvent{Type: StreamStart}

			text, err := g.llm.Generate(ctx, prompt)
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Error: g.translateError(err)}
				return
			}

			ch <- StreamEvent{Type: TextStart}
			ch <- StreamEvent{Type: TextDelta, Delta: text}
			ch <- StreamEvent{Type: TextEnd}

			resp := g.buildResponse(req, text)
			ch <- StreamEvent{
				Type:         StreamFinish,
				FinishReason: &resp.FinishReason,
				Usage:        &resp.Usage,
				Response:     resp,
			}
		}()
		return ch, nil
	}

	stream, err := g.llm.Stream(ctx, prompt)
	if err != nil {
		return nil, g.translateError(err)
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- StreamEvent{Type: StreamStart}

		started := false
		var fullText strings.Builder

		for {
			token, err := stream.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				ch <- StreamEvent{Type: StreamError, Error: g.translateError(err)}
				return
			}
			if token == nil {
				continue
			}

			if !started {
				ch <- StreamEvent{Type: TextStart}
				started = true
			}

			ch <- StreamEvent{Type: TextDelta, Delta: token.Text}
			fullText.WriteString(token.Text)
		}

		if started {
			ch <- StreamEvent{Type: TextEnd}
		}

		resp := g.buildResponse(req, fullText.String())
		ch <- StreamEvent{
			Type:         StreamFinish,
			FinishReason: &resp.FinishReason,
			Usage:        &resp.Usage,
			Response:     resp,
		}
	}()

	return ch, nil
}

// translateRequest converts a gateway Request into a gollm Prompt.
func (g *GollmGateway) translateRequest(req Request) *gollm.Prompt {
	var systemPrompt string
	var userParts []string

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt += msg.TextContent() + "\n"
		case RoleUser:
			userParts = append(userParts, msg.TextContent())
		case RoleAssistant:
			if text := msg.TextContent(); text != "" {
				userParts = append(userParts, "[Assistant]: "+text)
			}
			for _, tc := range msg.ToolCalls() {
				userParts = append(userParts,
					fmt.Sprintf("[Assistant called tool %s with arguments %s]", tc.Name, string(tc.Arguments)))
			}
		case RoleTool:
			for _, part := range msg.Content {
				if part.Kind != ContentToolResult || part.ToolResult == nil {
					continue
				}
				prefix := "[Tool Result]"
				if part.ToolResult.IsError {
					prefix = "[Tool Error]"
				}
				userParts = append(userParts, prefix+": "+part.ToolResult.Content)
			}
		}
	}

	promptText := strings.Join(userParts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	var promptOpts []gollm.PromptOption

	if systemPrompt != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(systemPrompt), gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens != nil {
		promptOpts = append(promptOpts, gollm.WithMaxLength(*req.MaxTokens))
	}

	if len(req.ToolDefs) > 0 {
		tools := make([]gollm.Tool, 0, len(req.ToolDefs))
		for _, t := range req.ToolDefs {
			tools = append(tools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		promptOpts = append(promptOpts, gollm.WithTools(tools))
	}

	if req.ToolChoice != nil {
		promptOpts = append(promptOpts, gollm.WithToolChoice(req.ToolChoice.Mode))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

// applyRequestOptions applies request-level parameters to the gollm LLM.
func (g *GollmGateway) applyRequestOptions(req Request) {
	if req.Model != "" {
		g.llm.SetOption("model", req.Model)
	}
	if req.Temperature != nil {
		g.llm.SetOption("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		g.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

// buildResponse constructs a gateway Response from the generated text,
// extracting any tool calls gollm returned embedded in the text.
func (g *GollmGateway) buildResponse(req Request, text string) *Response {
	model := req.Model
	if model == "" {
		model = g.model
	}

	var contentParts []ContentPart
	toolCalls := parseToolCalls(text)

	for _, tc := range toolCalls {
		data := tc
		contentParts = append(contentParts, ContentPart{Kind: ContentToolCall, ToolCall: &data})
	}

	if cleaned := removeToolCallJSON(text, toolCalls); cleaned != "" {
		contentParts = append([]ContentPart{TextPart(cleaned)}, contentParts...)
	}
	if len(contentParts) == 0 {
		contentParts = []ContentPart{TextPart(text)}
	}

	finishReason := FinishReason{Reason: "stop", Raw: "stop"}
	if len(toolCalls) > 0 {
		finishReason = FinishReason{Reason: "tool_calls", Raw: "tool_calls"}
	}

	inputTokens := estimateTokens(req)
	return &Response{
		ID:       "resp_" + uuid.New().String()[:8],
		Model:    model,
		Provider: g.provider,
		Message: Message{
			Role:    RoleAssistant,
			Content: contentParts,
		},
		FinishReason: finishReason,
		Usage: Usage{
			// gollm does not expose provider usage; estimate from length.
			InputTokens:  inputTokens,
			OutputTokens: len(text) / 4,
			TotalTokens:  inputTokens + len(text)/4,
		},
	}
}

// parseToolCalls extracts tool calls that gollm returns as JSON embedded
// in the response text.
func parseToolCalls(text string) []ToolCallData {
	start := strings.Index(text, `{"tool_calls"`)
	if start == -1 {
		start = strings.Index(text, `[{"name"`)
	}
	if start == -1 {
		return nil
	}

	var rawCalls []struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	var calls []ToolCallData
	if err := json.Unmarshal([]byte(text[start:]), &rawCalls); err == nil {
		for _, rc := range rawCalls {
			calls = append(calls, ToolCallData{
				ID:        "call_" + uuid.New().String()[:8],
				Name:      rc.Name,
				Arguments: rc.Arguments,
			})
		}
	}
	return calls
}

// removeToolCallJSON strips parsed tool call JSON from the text.
func removeToolCallJSON(text string, calls []ToolCallData) string {
	if len(calls) == 0 {
		return text
	}
	result := text
	for _, pattern := range []string{`{"tool_calls"`, `[{"name"`} {
		if idx := strings.Index(result, pattern); idx != -1 {
			result = strings.TrimSpace(result[:idx])
		}
	}
	return result
}

// translateError classifies a gollm error into the gateway taxonomy.
func (g *GollmGateway) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	pe := func(status int, retryable bool) ProviderError {
		return ProviderError{
			ModelError: ModelError{Message: msg, Cause: err},
			Provider:   g.provider,
			StatusCode: status,
			Retryable:  retryable,
		}
	}

	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") ||
		strings.Contains(msgLower, "invalid api key") || strings.Contains(msgLower, "invalid key"):
		return &AuthenticationError{ProviderError: pe(401, false)}
	case strings.Contains(msgLower, "403") || strings.Contains(msgLower, "forbidden"):
		return &AccessDeniedError{ProviderError: pe(403, false)}
	case strings.Contains(msgLower, "404") || strings.Contains(msgLower, "not found"):
		return &NotFoundError{ProviderError: pe(404, false)}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: pe(429, true)}
	case strings.Contains(msgLower, "context length") || strings.Contains(msgLower, "too many tokens"):
		return &ContextLengthError{ProviderError: pe(413, false)}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: pe(500, true)}
	case strings.Contains(msgLower, "timeout"):
		return &RequestTimeoutError{ModelError: ModelError{Message: msg, Cause: err}}
	case strings.Contains(msgLower, "content filter") || strings.Contains(msgLower, "safety"):
		return &ContentFilterError{ProviderError: pe(0, false)}
	default:
		p := pe(0, true)
		return &p
	}
}

// estimateTokens provides a rough token count from request messages.
func estimateTokens(req Request) int {
	total := 0
	for _, msg := range req.Messages {
		for _, part := range msg.Content {
			if part.Kind == ContentText {
				total += len(part.Text) / 4
			}
		}
	}
	if total == 0 {
		total = 10
	}
	return total
}
