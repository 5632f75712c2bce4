// Package stats provides the numerical primitives used by the pair
// diagnostics: ordinary least squares, the augmented Dickey-Fuller test and
// the KPSS stationarity test. Return shapes mirror the usual statsmodels
// outputs so results can be compared against reference implementations.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrSampleTooShort = errors.New("stats: sample too short")
	ErrConstantSeries = errors.New("stats: series is constant")
	ErrSingularDesign = errors.New("stats: singular design matrix")
)

// OLSResult holds a fitted linear regression.
type OLSResult struct {
	Params []float64
	StdErr []float64
	TValue []float64
	Resid  []float64
	SSR    float64
	NObs   int
	LogLik float64
	AIC    float64
	BIC    float64
}

// AddConstant builds an n x (len(cols)+1) design matrix whose first column is
// the constant 1 followed by cols in order. All columns must share a length.
func AddConstant(cols ...[]float64) *mat.Dense {
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	x := mat.NewDense(n, len(cols)+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j, c := range cols {
			x.Set(i, j+1, c[i])
		}
	}
	return x
}

// OLS regresses y on the columns of x.
func OLS(y []float64, x *mat.Dense) (*OLSResult, error) {
	n, k := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("ols: design has %d rows, response has %d", n, len(y))
	}
	if n <= k {
		return nil, fmt.Errorf("ols: %d observations for %d regressors: %w", n, k, ErrSampleTooShort)
	}

	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		return nil, fmt.Errorf("ols: %v: %w", err, ErrSingularDesign)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	resid := make([]float64, n)
	ssr := 0.0
	for i := 0; i < n; i++ {
		resid[i] = y[i] - fitted.AtVec(i)
		ssr += resid[i] * resid[i]
	}

	xtx := mat.NewSymDense(k, nil)
	xtx.SymOuterK(1, x.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		return nil, fmt.Errorf("ols: X'X not positive definite: %w", ErrSingularDesign)
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, fmt.Errorf("ols: invert X'X: %v: %w", err, ErrSingularDesign)
	}

	sigma2 := ssr / float64(n-k)
	res := &OLSResult{
		Params: make([]float64, k),
		StdErr: make([]float64, k),
		TValue: make([]float64, k),
		Resid:  resid,
		SSR:    ssr,
		NObs:   n,
	}
	for i := 0; i < k; i++ {
		res.Params[i] = beta.AtVec(i)
		res.StdErr[i] = math.Sqrt(sigma2 * cov.At(i, i))
		res.TValue[i] = res.Params[i] / res.StdErr[i]
	}

	nf := float64(n)
	res.LogLik = -nf / 2 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1)
	res.AIC = -2*res.LogLik + 2*float64(k)
	res.BIC = -2*res.LogLik + math.Log(nf)*float64(k)
	return res, nil
}

// Slope returns the coefficient of the first non-constant regressor.
func (r *OLSResult) Slope() float64 {
	if len(r.Params) < 2 {
		return math.NaN()
	}
	return r.Params[1]
}
