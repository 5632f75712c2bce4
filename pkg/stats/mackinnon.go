package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MacKinnon (1994) response surface for the single-series (N=1) Dickey-Fuller
// distribution, and MacKinnon (2010) finite-sample critical values.
type tauSurface struct {
	star   float64
	min    float64
	max    float64
	smallp []float64
	largep []float64
	crit   [3][4]float64
}

var tauSurfaces = map[Regression]tauSurface{
	RegressionConstant: {
		star:   -1.61,
		min:    -18.83,
		max:    2.74,
		smallp: []float64{2.1659, 1.4412, 3.8269 * 1e-2},
		largep: []float64{1.7339, 9.3202 * 1e-1, -1.2745 * 1e-1, -1.0368 * 1e-2},
		crit: [3][4]float64{
			{-3.43035, -6.5393, -16.786, -79.433},
			{-2.86154, -2.8903, -4.234, -40.040},
			{-2.56677, -1.5384, -2.809, 0},
		},
	},
	RegressionConstantTrend: {
		star:   -2.89,
		min:    -16.18,
		max:    0.7,
		smallp: []float64{3.2512, 1.6047, 4.9588 * 1e-2},
		largep: []float64{2.5261, 6.1654 * 1e-1, -3.7956 * 1e-1, -6.0285 * 1e-2},
		crit: [3][4]float64{
			{-3.95877, -9.0531, -28.428, -134.155},
			{-3.41049, -4.3904, -9.036, -45.374},
			{-3.12705, -2.5856, -3.925, -22.380},
		},
	},
}

var critLevels = [3]string{"1%", "5%", "10%"}

// MacKinnonP returns the approximate p-value of a Dickey-Fuller statistic.
func MacKinnonP(stat float64, reg Regression) float64 {
	s, ok := tauSurfaces[reg]
	if !ok {
		return math.NaN()
	}
	switch {
	case stat > s.max:
		return 1
	case stat < s.min:
		return 0
	}
	coef := s.largep
	if stat <= s.star {
		coef = s.smallp
	}
	return distuv.UnitNormal.CDF(polyval(coef, stat))
}

// MacKinnonCrit returns the 1%, 5% and 10% critical values for nobs
// observations.
func MacKinnonCrit(reg Regression, nobs int) map[string]float64 {
	s, ok := tauSurfaces[reg]
	if !ok {
		return nil
	}
	inv := 1 / float64(nobs)
	out := make(map[string]float64, len(critLevels))
	for i, level := range critLevels {
		out[level] = polyval(s.crit[i][:], inv)
	}
	return out
}

// polyval evaluates c[0] + c[1]x + c[2]x^2 + ...
func polyval(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
