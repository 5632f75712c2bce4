package pairs

import (
	"fmt"

	"PairLink/internal/domain/models"
	domsvc "PairLink/internal/domain/service"
	"PairLink/pkg/logger"
	"PairLink/pkg/stats"
)

// Defaults of the integration-order search.
const (
	DefaultMaxDiff      = 2
	DefaultSignificance = 0.05
)

// FailSafePolicy holds the p-values substituted when a test errors. Both
// defaults bias toward "not stationary": ADF passes on small p-values,
// KPSS on large ones.
type FailSafePolicy struct {
	ADF  float64
	KPSS float64
}

// DefaultFailSafe substitutes p=1 for ADF and p=0 for KPSS.
var DefaultFailSafe = FailSafePolicy{ADF: 1, KPSS: 0}

// PValue returns the substitute for kind.
func (p FailSafePolicy) PValue(kind models.TestKind) float64 {
	if kind == models.TestADF {
		return p.ADF
	}
	return p.KPSS
}

// IntegrationTester finds the smallest differencing order at which a series
// passes a unit-root or stationarity test.
type IntegrationTester struct {
	tests        domsvc.UnitRootTester
	policy       FailSafePolicy
	maxDiff      int
	significance float64
	log          logger.Log
	onFailSafe   func(models.TestKind)
}

// TesterOption configures IntegrationTester.
type TesterOption func(*IntegrationTester)

// WithUnitRootTester swaps the statistical backend.
func WithUnitRootTester(t domsvc.UnitRootTester) TesterOption {
	return func(it *IntegrationTester) {
		it.tests = t
	}
}

// WithFailSafePolicy overrides the substituted p-values.
func WithFailSafePolicy(p FailSafePolicy) TesterOption {
	return func(it *IntegrationTester) {
		it.policy = p
	}
}

// WithMaxDiff sets the highest differencing order tried.
func WithMaxDiff(d int) TesterOption {
	return func(it *IntegrationTester) {
		it.maxDiff = d
	}
}

// WithSignificance sets the test level.
func WithSignificance(s float64) TesterOption {
	return func(it *IntegrationTester) {
		it.significance = s
	}
}

// WithLogger sets the logger used for fail-safe reports.
func WithLogger(l logger.Log) TesterOption {
	return func(it *IntegrationTester) {
		it.log = l
	}
}

// WithFailSafeHook is called once per substituted p-value.
func WithFailSafeHook(fn func(models.TestKind)) TesterOption {
	return func(it *IntegrationTester) {
		it.onFailSafe = fn
	}
}

// NewIntegrationTester builds a tester with max diff 2, significance 0.05,
// the default fail-safe policy and a silent logger.
func NewIntegrationTester(opts ...TesterOption) *IntegrationTester {
	it := &IntegrationTester{
		tests:        domsvc.GonumTester{},
		policy:       DefaultFailSafe,
		maxDiff:      DefaultMaxDiff,
		significance: DefaultSignificance,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// MaxDiff returns the highest differencing order tried.
func (it *IntegrationTester) MaxDiff() int { return it.maxDiff }

// Significance returns the test level.
func (it *IntegrationTester) Significance() float64 { return it.significance }

// Determine tests series, then its successive differences, up to the
// maximum order. A test error never aborts the search: the policy p-value
// is used instead and the step is marked substituted.
func (it *IntegrationTester) Determine(series []float64, kind models.TestKind) models.IntegrationFinding {
	finding := models.IntegrationFinding{
		Test:  kind,
		Order: models.Undetermined,
		Steps: make([]models.IntegrationStep, 0, it.maxDiff+1),
	}

	current := append([]float64(nil), series...)
	for d := 0; d <= it.maxDiff; d++ {
		step := models.IntegrationStep{D: d}
		p, err := it.pValue(stats.DropNaN(current), kind)
		if err != nil {
			p = it.policy.PValue(kind)
			step.Substituted = true
			step.Err = err.Error()
			it.log.Warn("unit root test failed, using fail-safe p-value",
				logger.String("test", string(kind)),
				logger.Int("d", d),
				logger.Float("p_value", p),
				logger.Error(err),
			)
			if it.onFailSafe != nil {
				it.onFailSafe(kind)
			}
		}
		step.PValue = p
		step.Passed = passes(kind, p, it.significance)
		finding.Steps = append(finding.Steps, step)

		if step.Passed {
			finding.Order = models.Order(d)
			return finding
		}
		current = stats.Diff(current)
	}
	return finding
}

func (it *IntegrationTester) pValue(x []float64, kind models.TestKind) (float64, error) {
	switch kind {
	case models.TestADF:
		res, err := it.tests.ADF(x, stats.DefaultADFOptions())
		if err != nil {
			return 0, err
		}
		return res.PValue, nil
	case models.TestKPSSLevel:
		res, err := it.tests.KPSS(x, stats.RegressionConstant, stats.NLagsAuto)
		if err != nil {
			return 0, err
		}
		return res.PValue, nil
	case models.TestKPSSTrend:
		res, err := it.tests.KPSS(x, stats.RegressionConstantTrend, stats.NLagsAuto)
		if err != nil {
			return 0, err
		}
		return res.PValue, nil
	}
	return 0, fmt.Errorf("unsupported test kind %q", kind)
}

// passes applies the success rule of each test family. Unknown kinds never
// pass.
func passes(kind models.TestKind, p, significance float64) bool {
	switch kind {
	case models.TestADF:
		return p < significance
	case models.TestKPSSLevel, models.TestKPSSTrend:
		return p > significance
	}
	return false
}

// DetermineIntegrationOrder runs a default tester with the given bounds.
func DetermineIntegrationOrder(series []float64, kind models.TestKind, maxDiff int, significance float64) models.IntegrationOrder {
	it := NewIntegrationTester(WithMaxDiff(maxDiff), WithSignificance(significance))
	return it.Determine(series, kind).Order
}
