package toolserver

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// statistics computes descriptive statistics for a dataset. Standard
// deviation and variance are sample (n-1) measures and are zero for a
// single value. Mode is present only when the dataset has repeats.
func statistics(values []float64) (map[string]any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("statistics requires at least one value")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var variance, stdDev float64
	if len(values) > 1 {
		var ss float64
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		variance = ss / float64(len(values)-1)
		stdDev = math.Sqrt(variance)
	}

	return map[string]any{
		"count":    len(values),
		"mean":     mean,
		"median":   median,
		"mode":     mode(values),
		"std_dev":  stdDev,
		"variance": variance,
		"min":      sorted[0],
		"max":      sorted[len(sorted)-1],
		"range":    sorted[len(sorted)-1] - sorted[0],
		"sum":      sum,
	}, nil
}

// mode returns the most frequent value, or nil when every value is unique.
// Ties break toward the value seen first.
func mode(values []float64) any {
	counts := make(map[float64]int, len(values))
	var best float64
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	if bestCount < 2 {
		return nil
	}
	return best
}

// quadratic solves ax^2 + bx + c = 0. Complex conjugate roots are
// rendered as "a + bi" strings.
func quadratic(a, b, c float64) (map[string]any, error) {
	if a == 0 {
		return nil, fmt.Errorf("coefficient a must be non-zero")
	}

	disc := b*b - 4*a*c
	switch {
	case disc > 0:
		x1 := (-b + math.Sqrt(disc)) / (2 * a)
		x2 := (-b - math.Sqrt(disc)) / (2 * a)
		return map[string]any{
			"discriminant": disc,
			"roots":        []any{x1, x2},
			"root_type":    "real_distinct",
		}, nil
	case disc == 0:
		return map[string]any{
			"discriminant": disc,
			"roots":        []any{-b / (2 * a)},
			"root_type":    "real_repeated",
		}, nil
	default:
		re := -b / (2 * a)
		im := math.Sqrt(-disc) / (2 * a)
		return map[string]any{
			"discriminant": disc,
			"roots": []any{
				formatFloat(re) + " + " + formatFloat(im) + "i",
				formatFloat(re) + " - " + formatFloat(im) + "i",
			},
			"root_type": "complex",
		}, nil
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// advancedMath handles the scalar operations: factorial, logarithm,
// trigonometry, and power.
func advancedMath(operation string, values []float64) (any, error) {
	switch operation {
	case "factorial":
		if len(values) != 1 || values[0] < 0 || values[0] != math.Trunc(values[0]) {
			return nil, fmt.Errorf("factorial requires a single non-negative integer")
		}
		n := int(values[0])
		if n > 170 {
			return nil, fmt.Errorf("factorial of %d overflows", n)
		}
		result := 1.0
		for i := 2; i <= n; i++ {
			result *= float64(i)
		}
		return result, nil

	case "logarithm":
		switch len(values) {
		case 1:
			if values[0] <= 0 {
				return nil, fmt.Errorf("logarithm requires a positive value")
			}
			return math.Log(values[0]), nil
		case 2:
			if values[0] <= 0 || values[1] <= 0 || values[1] == 1 {
				return nil, fmt.Errorf("logarithm requires positive value and base != 1")
			}
			return math.Log(values[0]) / math.Log(values[1]), nil
		default:
			return nil, fmt.Errorf("logarithm requires 1 or 2 values")
		}

	case "trigonometry":
		if len(values) != 1 {
			return nil, fmt.Errorf("trigonometry requires 1 value (angle in radians)")
		}
		angle := values[0]
		return map[string]any{
			"sin":           math.Sin(angle),
			"cos":           math.Cos(angle),
			"tan":           math.Tan(angle),
			"angle_radians": angle,
			"angle_degrees": angle * 180 / math.Pi,
		}, nil

	case "power":
		if len(values) != 2 {
			return nil, fmt.Errorf("power requires base and exponent")
		}
		return math.Pow(values[0], values[1]), nil

	default:
		return nil, fmt.Errorf("unknown math operation: %s", operation)
	}
}
