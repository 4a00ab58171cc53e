package remote

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// The model consumes tool results as text, not raw JSON, so success
// payloads are rendered into a compact human-readable form here.

type statisticsResult struct {
	Count    int      `json:"count"`
	Mean     float64  `json:"mean"`
	Median   float64  `json:"median"`
	Mode     *float64 `json:"mode"`
	StdDev   float64  `json:"std_dev"`
	Variance float64  `json:"variance"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Range    float64  `json:"range"`
	Sum      float64  `json:"sum"`
}

type quadraticResult struct {
	Discriminant float64 `json:"discriminant"`
	Roots        []any   `json:"roots"`
	RootType     string  `json:"root_type"`
}

type trigResult struct {
	Sin          float64 `json:"sin"`
	Cos          float64 `json:"cos"`
	Tan          float64 `json:"tan"`
	AngleRadians float64 `json:"angle_radians"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// FormatMathResult renders a /math result payload as readable text.
// Unrecognized payloads fall back to their raw JSON form.
func FormatMathResult(operation string, result json.RawMessage) string {
	switch operation {
	case "statistics":
		var s statisticsResult
		if err := json.Unmarshal(result, &s); err != nil {
			return string(result)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Count: %d\n", s.Count)
		fmt.Fprintf(&sb, "Mean: %.4f\n", s.Mean)
		fmt.Fprintf(&sb, "Median: %.4f\n", s.Median)
		if s.Mode != nil {
			fmt.Fprintf(&sb, "Mode: %.4f\n", *s.Mode)
		} else {
			sb.WriteString("Mode: none\n")
		}
		fmt.Fprintf(&sb, "Std Dev: %.4f\n", s.StdDev)
		fmt.Fprintf(&sb, "Variance: %.4f\n", s.Variance)
		fmt.Fprintf(&sb, "Min: %.4f\n", s.Min)
		fmt.Fprintf(&sb, "Max: %.4f\n", s.Max)
		fmt.Fprintf(&sb, "Range: %.4f\n", s.Range)
		fmt.Fprintf(&sb, "Sum: %.4f", s.Sum)
		return sb.String()

	case "quadratic":
		var q quadraticResult
		if err := json.Unmarshal(result, &q); err != nil {
			return string(result)
		}
		roots := make([]string, 0, len(q.Roots))
		for _, r := range q.Roots {
			roots = append(roots, formatScalar(r))
		}
		return fmt.Sprintf("Root type: %s\nDiscriminant: %.4f\nRoots: %s",
			q.RootType, q.Discriminant, strings.Join(roots, ", "))

	case "trigonometry":
		var tr trigResult
		if err := json.Unmarshal(result, &tr); err != nil {
			return string(result)
		}
		return fmt.Sprintf("Angle: %.4f rad (%.4f°)\nsin: %.4f\ncos: %.4f\ntan: %.4f",
			tr.AngleRadians, tr.AngleDegrees, tr.Sin, tr.Cos, tr.Tan)

	default:
		// factorial, logarithm, power: a single scalar.
		var v any
		if err := json.Unmarshal(result, &v); err != nil {
			return string(result)
		}
		return "Result: " + formatScalar(v)
	}
}

// FormatTextResult renders a /text result payload. The service returns
// text operations as a JSON-encoded string.
func FormatTextResult(result json.RawMessage) string {
	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return string(result)
	}
	return s
}

func formatScalar(v any) string {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return fmt.Sprintf("%.0f", n)
		}
		return fmt.Sprintf("%.4f", n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", n)
	}
}
