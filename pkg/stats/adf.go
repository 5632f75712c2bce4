package stats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Regression selects the deterministic terms of a unit-root regression.
type Regression string

const (
	RegressionConstant      Regression = "c"
	RegressionConstantTrend Regression = "ct"
)

func (r Regression) trendTerms() int { return len(r) }

// LagSelection chooses how the ADF lag length is picked.
type LagSelection string

const (
	LagAIC   LagSelection = "AIC"
	LagBIC   LagSelection = "BIC"
	LagTStat LagSelection = "t-stat"
	LagNone  LagSelection = "none"
)

// ParseLagSelection maps a user supplied name onto a LagSelection.
// The empty string selects AIC.
func ParseLagSelection(s string) (LagSelection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aic":
		return LagAIC, nil
	case "bic":
		return LagBIC, nil
	case "t-stat", "tstat":
		return LagTStat, nil
	case "none":
		return LagNone, nil
	}
	return "", fmt.Errorf("unknown lag selection %q", s)
}

// ADFOptions configures the augmented Dickey-Fuller test.
type ADFOptions struct {
	// MaxLag < 0 selects ceil(12*(n/100)^(1/4)).
	MaxLag     int
	Regression Regression
	Autolag    LagSelection
}

// DefaultADFOptions matches the usual defaults: constant, AIC lag search.
func DefaultADFOptions() ADFOptions {
	return ADFOptions{MaxLag: -1, Regression: RegressionConstant, Autolag: LagAIC}
}

// ADFResult is the outcome of an ADF test.
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	UsedLag        int                `json:"used_lag"`
	NObs           int                `json:"nobs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	ICBest         float64            `json:"ic_best,omitempty"`
}

// ADF runs the augmented Dickey-Fuller unit-root test on x. The null
// hypothesis is that x has a unit root.
func ADF(x []float64, opts ADFOptions) (*ADFResult, error) {
	if opts.Regression == "" {
		opts.Regression = RegressionConstant
	}
	if _, ok := tauSurfaces[opts.Regression]; !ok {
		return nil, fmt.Errorf("adf: unsupported regression %q", opts.Regression)
	}
	if opts.Autolag == "" {
		opts.Autolag = LagAIC
	}
	n := len(x)
	if n < 3 {
		return nil, fmt.Errorf("adf: %d observations: %w", n, ErrSampleTooShort)
	}
	if IsConstant(x) {
		return nil, fmt.Errorf("adf: %w", ErrConstantSeries)
	}

	ntrend := opts.Regression.trendTerms()
	maxLag := opts.MaxLag
	if maxLag < 0 {
		maxLag = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
		if limit := n/2 - ntrend - 1; limit < maxLag {
			maxLag = limit
		}
		if maxLag < 0 {
			return nil, fmt.Errorf("adf: %d observations for regression %q: %w", n, opts.Regression, ErrSampleTooShort)
		}
	}

	dx := make([]float64, n-1)
	for i := range dx {
		dx[i] = x[i+1] - x[i]
	}
	if maxLag >= len(dx) {
		return nil, fmt.Errorf("adf: max lag %d for %d differences: %w", maxLag, len(dx), ErrSampleTooShort)
	}

	usedLag := maxLag
	icBest := 0.0
	if opts.Autolag != LagNone {
		var err error
		usedLag, icBest, err = selectLag(x, dx, maxLag, opts)
		if err != nil {
			return nil, err
		}
	}

	y, design := adfDesign(x, dx, usedLag, usedLag, opts.Regression)
	fit, err := OLS(y, design)
	if err != nil {
		return nil, fmt.Errorf("adf: %w", err)
	}
	stat := fit.TValue[levelColumn(opts.Regression)]
	nobs := len(y)
	return &ADFResult{
		Statistic:      stat,
		PValue:         MacKinnonP(stat, opts.Regression),
		UsedLag:        usedLag,
		NObs:           nobs,
		CriticalValues: MacKinnonCrit(opts.Regression, nobs),
		ICBest:         icBest,
	}, nil
}

// selectLag fits every lag length 0..maxLag on the common sample that starts
// after maxLag differences and returns the preferred lag.
func selectLag(x, dx []float64, maxLag int, opts ADFOptions) (int, float64, error) {
	fits := make([]*OLSResult, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		y, design := adfDesign(x, dx, lag, maxLag, opts.Regression)
		fit, err := OLS(y, design)
		if err != nil {
			return 0, 0, fmt.Errorf("adf: lag %d: %w", lag, err)
		}
		fits[lag] = fit
	}

	switch opts.Autolag {
	case LagAIC, LagBIC:
		best, bestIC := 0, math.Inf(1)
		for lag, fit := range fits {
			ic := fit.AIC
			if opts.Autolag == LagBIC {
				ic = fit.BIC
			}
			if ic < bestIC {
				best, bestIC = lag, ic
			}
		}
		return best, bestIC, nil
	case LagTStat:
		// 95% one-sided normal quantile.
		const stop = 1.6448536269514722
		best, tBest := maxLag, 0.0
		for lag := maxLag; lag >= 0; lag-- {
			t := fits[lag].TValue
			tBest = math.Abs(t[len(t)-1])
			best = lag
			if tBest >= stop {
				break
			}
		}
		return best, tBest, nil
	}
	return 0, 0, fmt.Errorf("adf: unsupported lag selection %q", opts.Autolag)
}

// adfDesign builds the ADF regression of dx[t] on the deterministic terms,
// the lagged level x[t] and lags lagged differences, using rows t >= start.
// Column order: deterministic terms, level, lagged differences.
func adfDesign(x, dx []float64, lags, start int, reg Regression) ([]float64, *mat.Dense) {
	ntrend := reg.trendTerms()
	rows := len(dx) - start
	cols := ntrend + 1 + lags
	y := make([]float64, rows)
	design := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		t := start + i
		y[i] = dx[t]
		design.Set(i, 0, 1)
		if ntrend == 2 {
			design.Set(i, 1, float64(i+1))
		}
		design.Set(i, ntrend, x[t])
		for j := 1; j <= lags; j++ {
			design.Set(i, ntrend+j, dx[t-j])
		}
	}
	return y, design
}

func levelColumn(reg Regression) int { return reg.trendTerms() }
