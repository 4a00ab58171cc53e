package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/martinemde/relay/agent"
)

// Toolset returns the tool specs exposing the math and text service
// through the agent registry. Each tool is a thin wrapper: marshal
// arguments into the wire request, call the service, format the result.
func Toolset(client *Client) []agent.ToolSpec {
	return []agent.ToolSpec{
		statisticsTool(client),
		quadraticTool(client),
		advancedMathTool(client),
		textAnalyzeTool(client),
		textProcessTool(client),
	}
}

// mathRequest is the /math request body. The service requires the
// values field on every operation, even those that ignore it.
type mathRequest struct {
	Operation string    `json:"operation"`
	Values    []float64 `json:"values"`
	A         float64   `json:"a,omitempty"`
	B         float64   `json:"b,omitempty"`
	C         float64   `json:"c,omitempty"`
}

// textRequest is the /text request body. The extraction_type field
// doubles as the transformation name for transform operations.
type textRequest struct {
	Operation      string `json:"operation"`
	Text           string `json:"text"`
	ExtractionType string `json:"extraction_type,omitempty"`
}

func callMath(ctx context.Context, client *Client, req mathRequest) (string, error) {
	if req.Values == nil {
		req.Values = []float64{}
	}
	result, err := client.Call(ctx, "/math", req)
	if err != nil {
		return "", err
	}
	return FormatMathResult(req.Operation, result), nil
}

func callText(ctx context.Context, client *Client, req textRequest) (string, error) {
	result, err := client.Call(ctx, "/text", req)
	if err != nil {
		return "", err
	}
	return FormatTextResult(result), nil
}

func statisticsTool(client *Client) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "http_math_statistics",
		Description: "Compute descriptive statistics (count, mean, median, mode, standard deviation, variance, min, max, range, sum) for a list of numbers.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"values": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "number"},
					"description": "The numbers to analyze.",
				},
			},
			"required": []string{"values"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Values []float64 `json:"values"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return callMath(ctx, client, mathRequest{Operation: "statistics", Values: in.Values})
		},
	}
}

func quadraticTool(client *Client) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "http_math_quadratic",
		Description: "Solve the quadratic equation ax^2 + bx + c = 0, reporting the discriminant, root type, and roots (real or complex).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number", "description": "Quadratic coefficient (must be non-zero)."},
				"b": map[string]any{"type": "number", "description": "Linear coefficient."},
				"c": map[string]any{"type": "number", "description": "Constant term."},
			},
			"required": []string{"a", "b", "c"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				A float64 `json:"a"`
				B float64 `json:"b"`
				C float64 `json:"c"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			req := mathRequest{Operation: "quadratic", Values: []float64{}, A: in.A, B: in.B, C: in.C}
			return callMath(ctx, client, req)
		},
	}
}

func advancedMathTool(client *Client) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "http_math_advanced",
		Description: "Advanced math operations. factorial: values[0]. logarithm: values[0] with optional base values[1] (natural log if omitted). trigonometry: angle in radians as values[0]. power: values[0] raised to values[1].",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"factorial", "logarithm", "trigonometry", "power"},
				},
				"values": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "number"},
					"description": "Operands, interpreted per operation.",
				},
			},
			"required": []string{"operation", "values"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Operation string    `json:"operation"`
				Values    []float64 `json:"values"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return callMath(ctx, client, mathRequest{Operation: in.Operation, Values: in.Values})
		},
	}
}

func textAnalyzeTool(client *Client) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "http_text_analyze",
		Description: "Analyze text: character, word, and sentence counts, average word length, and case statistics.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "description": "The text to analyze."},
			},
			"required": []string{"text"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return callText(ctx, client, textRequest{Operation: "analyze", Text: in.Text})
		},
	}
}

func textProcessTool(client *Client) agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "http_text_process",
		Description: "Transform or extract from text. transform supports upper, lower, title, reverse, pig_latin via transform_type. extract supports emails, urls, phone_numbers, dates, numbers via extraction_type.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"transform", "extract"},
				},
				"text": map[string]any{"type": "string"},
				"transform_type": map[string]any{
					"type": "string",
					"enum": []string{"upper", "lower", "title", "reverse", "pig_latin"},
				},
				"extraction_type": map[string]any{
					"type": "string",
					"enum": []string{"emails", "urls", "phone_numbers", "dates", "numbers"},
				},
			},
			"required": []string{"operation", "text"},
		},
		Invoke: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Operation      string `json:"operation"`
				Text           string `json:"text"`
				TransformType  string `json:"transform_type"`
				ExtractionType string `json:"extraction_type"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			// The wire format reuses extraction_type for transform names.
			kind := in.ExtractionType
			if in.Operation == "transform" && in.TransformType != "" {
				kind = in.TransformType
			}
			req := textRequest{
				Operation:      in.Operation,
				Text:           in.Text,
				ExtractionType: kind,
			}
			return callText(ctx, client, req)
		},
	}
}
