package service

import "PairLink/pkg/stats"

// UnitRootTester runs the statistical tests behind integration-order
// detection. Implementations may fail; callers decide how to recover.
type UnitRootTester interface {
	ADF(x []float64, opts stats.ADFOptions) (*stats.ADFResult, error)
	KPSS(x []float64, reg stats.Regression, nlags int) (*stats.KPSSResult, error)
}

// GonumTester is the UnitRootTester backed by pkg/stats.
type GonumTester struct{}

func (GonumTester) ADF(x []float64, opts stats.ADFOptions) (*stats.ADFResult, error) {
	return stats.ADF(x, opts)
}

func (GonumTester) KPSS(x []float64, reg stats.Regression, nlags int) (*stats.KPSSResult, error) {
	return stats.KPSS(x, reg, nlags)
}
