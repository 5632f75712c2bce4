package pairs

import (
	"fmt"

	"PairLink/internal/domain/models"
	domsvc "PairLink/internal/domain/service"
	"PairLink/pkg/stats"
)

// CointegrationLevel is the residual ADF p-value below which a regression
// counts as cointegrated.
const CointegrationLevel = 0.05

// EngleGranger regresses dep on a constant and indep and tests the
// residuals for a unit root.
func EngleGranger(dep, indep []float64, label string, autolag stats.LagSelection) (*models.DirectionalResult, error) {
	return engleGranger(domsvc.GonumTester{}, dep, indep, label, autolag)
}

func engleGranger(rt domsvc.UnitRootTester, dep, indep []float64, label string, autolag stats.LagSelection) (*models.DirectionalResult, error) {
	if err := checkAligned(dep, indep); err != nil {
		return nil, err
	}

	fit, err := stats.OLS(dep, stats.AddConstant(indep))
	if err != nil {
		return nil, fmt.Errorf("engle-granger %s: regression: %w", label, err)
	}

	adf, err := rt.ADF(fit.Resid, stats.ADFOptions{
		MaxLag:     -1,
		Regression: stats.RegressionConstant,
		Autolag:    autolag,
	})
	if err != nil {
		return nil, fmt.Errorf("engle-granger %s: residual adf: %w", label, err)
	}

	return &models.DirectionalResult{
		Direction:      label,
		IsCointegrated: adf.PValue < CointegrationLevel,
		PValue:         adf.PValue,
		ADFStatistic:   adf.Statistic,
		CriticalValues: adf.CriticalValues,
		UsedLag:        adf.UsedLag,
		HedgeRatio:     fit.Params[1],
		Intercept:      fit.Params[0],
		Residuals:      fit.Resid,
	}, nil
}
