package stats

import "math"

// Diff returns the first difference of x with the same length as x.
// The first element is NaN and any NaN operand yields NaN.
func Diff(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

// DropNaN returns a copy of x without NaN values.
func DropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Lag shifts x forward by k periods, padding the head with NaN.
func Lag(x []float64, k int) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i < k {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i-k]
	}
	return out
}

// LagDiff returns x[t] - x[t-k] for t >= k.
func LagDiff(x []float64, k int) []float64 {
	if k <= 0 || k >= len(x) {
		return nil
	}
	out := make([]float64, 0, len(x)-k)
	for i := k; i < len(x); i++ {
		out = append(out, x[i]-x[i-k])
	}
	return out
}

// PctChange returns simple returns p[t]/p[t-1] - 1, one shorter than p.
func PctChange(p []float64) []float64 {
	if len(p) < 2 {
		return nil
	}
	out := make([]float64, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		out = append(out, p[i]/p[i-1]-1)
	}
	return out
}

// AllFinite reports whether x has no NaN or Inf values.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsConstant reports whether every element of x equals the first one.
func IsConstant(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
