package pairs

import (
	"fmt"
	"math"

	"PairLink/internal/domain/models"
	"PairLink/pkg/stats"

	"gonum.org/v1/gonum/stat"
)

// Spread returns the residual y - (alpha + beta*x) of the OLS hedge
// regression together with the fit.
func Spread(y, x []float64) ([]float64, *stats.OLSResult, error) {
	if err := checkAligned(y, x); err != nil {
		return nil, nil, err
	}
	fit, err := stats.OLS(y, stats.AddConstant(x))
	if err != nil {
		return nil, nil, fmt.Errorf("hedge regression: %w", err)
	}
	return fit.Resid, fit, nil
}

// EstimateHalfLife fits an AR(1) to the hedged spread and returns
// -ln(2)/lambda, or NotMeanReverting when lambda >= 0.
func EstimateHalfLife(y, x []float64) (models.Reversion, error) {
	spread, _, err := Spread(y, x)
	if err != nil {
		return models.NotMeanReverting, err
	}
	r, _, err := halfLife(spread)
	return r, err
}

// halfLife regresses spread[t]-spread[t-1] on a constant and spread[t-1].
func halfLife(spread []float64) (models.Reversion, float64, error) {
	if len(spread) < 4 {
		return models.NotMeanReverting, math.NaN(), invalid("spread has %d observations, need at least 4", len(spread))
	}
	lagged := spread[:len(spread)-1]
	delta := make([]float64, len(lagged))
	for i := range delta {
		delta[i] = spread[i+1] - spread[i]
	}

	fit, err := stats.OLS(delta, stats.AddConstant(lagged))
	if err != nil {
		return models.NotMeanReverting, math.NaN(), fmt.Errorf("ar(1) regression: %w", err)
	}
	lambda := fit.Slope()
	if lambda >= 0 {
		return models.NotMeanReverting, lambda, nil
	}
	return models.Estimate(-math.Ln2 / lambda), lambda, nil
}

// EmpiricalMeanReversion compounds the per-period return differential of y
// over x and measures how many periods it takes to cross back through 1.
// The direction of the first period is the reference for every later
// crossing. The result is the mean of the recorded crossing lengths.
func EmpiricalMeanReversion(y, x []float64) (models.Reversion, error) {
	if err := checkAligned(y, x); err != nil {
		return models.NotMeanReverting, err
	}
	if len(y) < 2 {
		return models.NotMeanReverting, invalid("need at least 2 prices, got %d", len(y))
	}
	for i := range y {
		if y[i] == 0 || x[i] == 0 {
			return models.NotMeanReverting, invalid("zero price at position %d", i)
		}
	}

	ry, rx := stats.PctChange(y), stats.PctChange(x)
	diff := make([]float64, len(ry))
	for i := range diff {
		diff[i] = ry[i] - rx[i]
	}

	current := 1 + diff[0]
	periods := 1
	outperforming := current > 1

	var crossings []float64
	for _, r := range diff[1:] {
		current *= 1 + r
		periods++
		if (outperforming && current <= 1) || (!outperforming && current >= 1) {
			crossings = append(crossings, float64(periods))
			periods = 0
			current = 1
		}
	}

	if len(crossings) == 0 {
		return models.NotMeanReverting, nil
	}
	return models.Estimate(stat.Mean(crossings, nil)), nil
}

// MinHurstObservations is the shortest series that yields three lags.
const MinHurstObservations = 50

// HurstExponent estimates H as the slope of log std(x[t]-x[t-lag]) on
// log lag for lag = 2 .. n/10 - 1.
func HurstExponent(ts []float64) (float64, error) {
	if err := checkFinite("series", ts); err != nil {
		return math.NaN(), err
	}
	maxLag := len(ts) / 10
	if maxLag-2 < 3 {
		return math.NaN(), invalid("hurst needs at least %d observations, got %d", MinHurstObservations, len(ts))
	}

	logLags := make([]float64, 0, maxLag-2)
	logTau := make([]float64, 0, maxLag-2)
	for lag := 2; lag < maxLag; lag++ {
		tau := popStdDev(stats.LagDiff(ts, lag))
		if tau == 0 {
			return math.NaN(), invalid("lag %d differences have zero dispersion", lag)
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logTau = append(logTau, math.Log(tau))
	}

	fit, err := stats.OLS(logTau, stats.AddConstant(logLags))
	if err != nil {
		return math.NaN(), fmt.Errorf("hurst regression: %w", err)
	}
	return fit.Slope(), nil
}

// HurstRegime names the behaviour an exponent points to.
func HurstRegime(h float64, tolerance float64) string {
	switch {
	case math.IsNaN(h):
		return "unknown"
	case h < 0.5-tolerance:
		return "mean-reverting"
	case h > 0.5+tolerance:
		return "trending"
	}
	return "random-walk"
}

func popStdDev(x []float64) float64 {
	_, variance := stat.PopMeanVariance(x, nil)
	return math.Sqrt(variance)
}

// AnalyzeMeanReversion runs the half-life, the empirical reversion period
// and the Hurst exponent of the hedged spread. A Hurst estimate that cannot
// be made leaves the other two diagnostics intact.
func AnalyzeMeanReversion(y, x []float64) (*models.MeanReversionReport, error) {
	spread, fit, err := Spread(y, x)
	if err != nil {
		return nil, err
	}

	hl, lambda, err := halfLife(spread)
	if err != nil {
		return nil, err
	}
	emp, err := EmpiricalMeanReversion(y, x)
	if err != nil {
		return nil, err
	}

	rep := &models.MeanReversionReport{
		HalfLife:        hl,
		EmpiricalPeriod: emp,
		HedgeRatio:      fit.Params[1],
		Intercept:       fit.Params[0],
		Lambda:          lambda,
	}
	if h, err := HurstExponent(spread); err != nil {
		rep.HurstError = err.Error()
	} else {
		rep.Hurst = &h
	}
	return rep, nil
}
