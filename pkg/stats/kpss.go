package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Special values for the KPSS nlags argument.
const (
	NLagsAuto   = -1
	NLagsLegacy = -2
)

var (
	kpssPValues = []float64{0.10, 0.05, 0.025, 0.01}
	kpssLevels  = []string{"10%", "5%", "2.5%", "1%"}
	kpssCrit    = map[Regression][]float64{
		RegressionConstant:      {0.347, 0.463, 0.574, 0.739},
		RegressionConstantTrend: {0.119, 0.146, 0.176, 0.216},
	}
)

// KPSSResult is the outcome of a KPSS test.
type KPSSResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	Lags           int                `json:"lags"`
	CriticalValues map[string]float64 `json:"critical_values"`
}

// KPSS runs the Kwiatkowski-Phillips-Schmidt-Shin test on x. The null
// hypothesis is stationarity around a level (c) or a linear trend (ct).
// The p-value is interpolated on the published table and therefore lies in
// [0.01, 0.10].
func KPSS(x []float64, reg Regression, nlags int) (*KPSSResult, error) {
	crit, ok := kpssCrit[reg]
	if !ok {
		return nil, fmt.Errorf("kpss: unsupported regression %q", reg)
	}
	n := len(x)
	if n < 3 {
		return nil, fmt.Errorf("kpss: %d observations: %w", n, ErrSampleTooShort)
	}

	var resid []float64
	if reg == RegressionConstantTrend {
		trend := make([]float64, n)
		for i := range trend {
			trend[i] = float64(i + 1)
		}
		fit, err := OLS(x, AddConstant(trend))
		if err != nil {
			return nil, fmt.Errorf("kpss: detrend: %w", err)
		}
		resid = fit.Resid
	} else {
		mean := floats.Sum(x) / float64(n)
		resid = make([]float64, n)
		for i, v := range x {
			resid[i] = v - mean
		}
	}

	switch {
	case nlags == NLagsAuto:
		nlags = kpssAutolag(resid)
		if nlags > n-1 {
			nlags = n - 1
		}
	case nlags == NLagsLegacy:
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
		if nlags > n-1 {
			nlags = n - 1
		}
	case nlags < 0:
		return nil, fmt.Errorf("kpss: invalid lag count %d", nlags)
	case nlags >= n:
		return nil, fmt.Errorf("kpss: lags %d must be < nobs %d: %w", nlags, n, ErrSampleTooShort)
	}

	partial := make([]float64, n)
	floats.CumSum(partial, resid)
	eta := floats.Dot(partial, partial) / float64(n*n)

	s := longRunVariance(resid, nlags)
	if s <= 0 || math.IsNaN(s) {
		return nil, fmt.Errorf("kpss: long-run variance is zero: %w", ErrConstantSeries)
	}
	stat := eta / s

	cv := make(map[string]float64, len(crit))
	for i, c := range crit {
		cv[kpssLevels[i]] = c
	}
	return &KPSSResult{
		Statistic:      stat,
		PValue:         interpClamp(stat, crit, kpssPValues),
		Lags:           nlags,
		CriticalValues: cv,
	}, nil
}

// longRunVariance is the Newey-West estimator with Bartlett weights.
func longRunVariance(resid []float64, lags int) float64 {
	n := len(resid)
	s := floats.Dot(resid, resid)
	for i := 1; i <= lags; i++ {
		prod := floats.Dot(resid[i:], resid[:n-i])
		s += 2 * prod * (1 - float64(i)/(float64(lags)+1))
	}
	return s / float64(n)
}

// kpssAutolag is the Hobijn et al. (1998) data-dependent bandwidth.
func kpssAutolag(resid []float64) int {
	n := len(resid)
	covlags := int(math.Pow(float64(n), 2.0/9.0))
	s0 := floats.Dot(resid, resid) / float64(n)
	s1 := 0.0
	for i := 1; i <= covlags && i < n; i++ {
		prod := floats.Dot(resid[i:], resid[:n-i]) / (float64(n) / 2)
		s0 += prod
		s1 += float64(i) * prod
	}
	if s0 == 0 {
		return 0
	}
	sHat := s1 / s0
	gamma := 1.1447 * math.Pow(sHat*sHat, 1.0/3.0)
	return int(gamma * math.Pow(float64(n), 1.0/3.0))
}

// interpClamp linearly interpolates fp at x over increasing xp, clamping
// outside the table.
func interpClamp(x float64, xp, fp []float64) float64 {
	if x <= xp[0] {
		return fp[0]
	}
	last := len(xp) - 1
	if x >= xp[last] {
		return fp[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xp[i] {
			w := (x - xp[i-1]) / (xp[i] - xp[i-1])
			return fp[i-1] + w*(fp[i]-fp[i-1])
		}
	}
	return fp[last]
}
