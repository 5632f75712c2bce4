package stats

import (
	"math"
	"math/rand"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func whiteNoise(rng *rand.Rand, n int, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}
	return out
}

// randomWalk cumulates drift plus gaussian shocks.
func randomWalk(rng *rand.Rand, n int, drift, sigma float64) []float64 {
	out := make([]float64, n)
	level := 100.0
	for i := range out {
		level += drift + sigma*rng.NormFloat64()
		out[i] = level
	}
	return out
}

func ar1(rng *rand.Rand, n int, phi, sigma float64) []float64 {
	out := make([]float64, n)
	prev := 0.0
	for i := range out {
		prev = phi*prev + sigma*rng.NormFloat64()
		out[i] = prev
	}
	return out
}
