package pairs

import (
	"errors"
	"math"
	"math/rand"

	"PairLink/pkg/stats"

	"gonum.org/v1/gonum/mat"
)

var errScripted = errors.New("scripted failure")

// scriptedTester replays queued p-values per test and fails once a queue
// is exhausted.
type scriptedTester struct {
	adf      []float64
	kpss     map[stats.Regression][]float64
	adfCalls int
	kpssLens []int
	adfLens  []int
}

func (s *scriptedTester) ADF(x []float64, _ stats.ADFOptions) (*stats.ADFResult, error) {
	s.adfCalls++
	s.adfLens = append(s.adfLens, len(x))
	if len(s.adf) == 0 {
		return nil, errScripted
	}
	p := s.adf[0]
	s.adf = s.adf[1:]
	return &stats.ADFResult{Statistic: -1, PValue: p, CriticalValues: map[string]float64{"5%": -2.86}}, nil
}

func (s *scriptedTester) KPSS(x []float64, reg stats.Regression, _ int) (*stats.KPSSResult, error) {
	s.kpssLens = append(s.kpssLens, len(x))
	q := s.kpss[reg]
	if len(q) == 0 {
		return nil, errScripted
	}
	s.kpss[reg] = q[1:]
	return &stats.KPSSResult{PValue: q[0]}, nil
}

type failingTester struct{}

func (failingTester) ADF([]float64, stats.ADFOptions) (*stats.ADFResult, error) {
	return nil, errScripted
}

func (failingTester) KPSS([]float64, stats.Regression, int) (*stats.KPSSResult, error) {
	return nil, errScripted
}

func seq(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

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

func cumsum(x []float64) []float64 {
	out := make([]float64, len(x))
	acc := 0.0
	for i, v := range x {
		acc += v
		out[i] = acc
	}
	return out
}

// fractionalBrownian draws fractional Brownian motion with Hurst index h
// from the Cholesky factor of the fractional Gaussian noise covariance.
func fractionalBrownian(rng *rand.Rand, n int, h float64) []float64 {
	gamma := func(k int) float64 {
		kf := float64(k)
		return 0.5 * (math.Pow(math.Abs(kf+1), 2*h) - 2*math.Pow(math.Abs(kf), 2*h) + math.Pow(math.Abs(kf-1), 2*h))
	}
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, gamma(j-i))
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(cov) {
		panic("fgn covariance not positive definite")
	}
	var l mat.TriDense
	chol.LTo(&l)

	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z.SetVec(i, rng.NormFloat64())
	}
	var noise mat.VecDense
	noise.MulVec(&l, z)
	return cumsum(noise.RawVector().Data)
}
