package usecase

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"PairLink/pkg/cache"
	"PairLink/pkg/config"
	"PairLink/pkg/stats"

	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	mu          sync.Mutex
	evaluations map[string]int
	failSafes   map[string]int
	errors      map[string]int
	cache       map[string]int
	sent        map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		evaluations: map[string]int{},
		failSafes:   map[string]int{},
		errors:      map[string]int{},
		cache:       map[string]int{},
		sent:        map[string]int{},
	}
}

func (m *fakeMetrics) inc(dst map[string]int, key string) {
	m.mu.Lock()
	dst[key]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordEvaluation(op, status string) { m.inc(m.evaluations, op+"/"+status) }
func (m *fakeMetrics) RecordFailSafe(test string)         { m.inc(m.failSafes, test) }
func (m *fakeMetrics) RecordError(kind string)            { m.inc(m.errors, kind) }
func (m *fakeMetrics) RecordCache(result string)          { m.inc(m.cache, result) }
func (m *fakeMetrics) RecordMessageSent(topic string)     { m.inc(m.sent, topic) }
func (m *fakeMetrics) RecordLatency(string, float64)      {}

func (m *fakeMetrics) get(dst map[string]int, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return dst[key]
}

// levelOnlyTests makes ADF find I(1) for series of length n and fails every
// KPSS run, so the confirm stage ends undetermined.
type levelOnlyTests struct{ n int }

func (s levelOnlyTests) ADF(x []float64, _ stats.ADFOptions) (*stats.ADFResult, error) {
	p := 0.01
	if len(x) == s.n {
		p = 0.5
	}
	return &stats.ADFResult{Statistic: -1, PValue: p}, nil
}

func (levelOnlyTests) KPSS([]float64, stats.Regression, int) (*stats.KPSSResult, error) {
	return nil, errors.New("kpss unavailable")
}

func newTestAnalyzer(t *testing.T, opts ...AnalyzerOption) (*PairAnalyzer, *fakeMetrics) {
	t.Helper()
	cfg := config.Default().Analysis
	mem := cache.NewMemoryCache(cache.WithMemoryCleanup(time.Minute))
	t.Cleanup(func() { _ = mem.Close() })

	m := newFakeMetrics()
	a, err := NewPairAnalyzer(cfg, mem, m, nil, opts...)
	require.NoError(t, err)
	return a, m
}

// cointegratedPair returns a drifting random walk and a noisy copy of it.
func cointegratedPair(seed int64, n int) ([]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	y := make([]float64, n)
	x := make([]float64, n)
	level := 100.0
	for i := range y {
		level += 0.5 + rng.NormFloat64()
		x[i] = level
		y[i] = 10 + 1.2*level + 0.5*rng.NormFloat64()
	}
	return y, x
}
