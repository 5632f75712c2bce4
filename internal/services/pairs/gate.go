package pairs

import (
	"fmt"

	"PairLink/internal/domain/models"
	domsvc "PairLink/internal/domain/service"
	"PairLink/pkg/logger"
	"PairLink/pkg/stats"
)

// PassesADFScreen is the GATE1 policy: both series must be I(1) by ADF.
func PassesADFScreen(s1, s2 models.IntegrationOrder) bool {
	return s1.Is(1) && s2.Is(1)
}

// PassesKPSSConfirmation is the GATE2 policy: both series must be I(1) under
// the level specification, or both under the trend specification.
func PassesKPSSConfirmation(s1Level, s2Level, s1Trend, s2Trend models.IntegrationOrder) bool {
	return (s1Level.Is(1) && s2Level.Is(1)) || (s1Trend.Is(1) && s2Trend.Is(1))
}

// NextState returns the state that follows s given the orders found so far.
// Terminal states map to themselves.
func NextState(s models.GateState, o models.IntegrationOrders) models.GateState {
	switch s {
	case models.StateStart:
		return models.StateGate1
	case models.StateGate1:
		if PassesADFScreen(o.Series1ADF, o.Series2ADF) {
			return models.StateConfirm
		}
		return models.StateRejected
	case models.StateConfirm:
		return models.StateGate2
	case models.StateGate2:
		if o.Series1KPSSLevel == nil || o.Series2KPSSLevel == nil ||
			o.Series1KPSSTrend == nil || o.Series2KPSSTrend == nil {
			return models.StateRejected
		}
		if PassesKPSSConfirmation(*o.Series1KPSSLevel, *o.Series2KPSSLevel, *o.Series1KPSSTrend, *o.Series2KPSSTrend) {
			return models.StateTest
		}
		return models.StateRejected
	}
	return s
}

// Gate decides whether a pair qualifies for Engle-Granger testing and runs
// the test in both directions when it does.
type Gate struct {
	tester *IntegrationTester
	rt     domsvc.UnitRootTester
	log    logger.Log
}

// GateOption configures Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger for rejection messages.
func WithGateLogger(l logger.Log) GateOption {
	return func(g *Gate) {
		g.log = l
	}
}

// WithResidualTester swaps the ADF used on regression residuals.
func WithResidualTester(rt domsvc.UnitRootTester) GateOption {
	return func(g *Gate) {
		g.rt = rt
	}
}

// NewGate builds a gate on top of tester. A nil tester uses the defaults.
func NewGate(tester *IntegrationTester, opts ...GateOption) *Gate {
	if tester == nil {
		tester = NewIntegrationTester()
	}
	g := &Gate{
		tester: tester,
		rt:     tester.tests,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// gateRun is the mutable state of one TestCointegration call.
type gateRun struct {
	s1, s2  []float64
	autolag stats.LagSelection
	res     *models.CointegrationResult
}

// TestCointegration walks START, GATE1, CONFIRM, GATE2 and ends in TEST or
// REJECTED. Test failures inside the order search are absorbed by the
// fail-safe policy; only an Engle-Granger failure is returned as an error.
func (g *Gate) TestCointegration(s1, s2 []float64, autolag stats.LagSelection) (*models.CointegrationResult, error) {
	if err := checkAligned(s1, s2); err != nil {
		return nil, err
	}
	if autolag == "" {
		autolag = stats.LagAIC
	}

	run := &gateRun{
		s1:      s1,
		s2:      s2,
		autolag: autolag,
		res:     &models.CointegrationResult{Status: models.StatusNotTestedNonI1},
	}

	state := models.StateStart
	for {
		run.res.Trail = append(run.res.Trail, state)
		if err := g.enter(state, run); err != nil {
			return nil, err
		}
		if state.Terminal() {
			return run.res, nil
		}
		state = NextState(state, run.res.Orders)
	}
}

func (g *Gate) enter(s models.GateState, run *gateRun) error {
	switch s {
	case models.StateStart:
		adf1 := g.tester.Determine(run.s1, models.TestADF)
		adf2 := g.tester.Determine(run.s2, models.TestADF)
		run.res.Orders.Series1ADF = adf1.Order
		run.res.Orders.Series2ADF = adf2.Order
		run.res.Findings = append(run.res.Findings, adf1, adf2)

	case models.StateConfirm:
		c1 := g.tester.Determine(run.s1, models.TestKPSSLevel)
		ct1 := g.tester.Determine(run.s1, models.TestKPSSTrend)
		c2 := g.tester.Determine(run.s2, models.TestKPSSLevel)
		ct2 := g.tester.Determine(run.s2, models.TestKPSSTrend)
		run.res.Orders.Series1KPSSLevel = &c1.Order
		run.res.Orders.Series1KPSSTrend = &ct1.Order
		run.res.Orders.Series2KPSSLevel = &c2.Order
		run.res.Orders.Series2KPSSTrend = &ct2.Order
		run.res.Findings = append(run.res.Findings, c1, ct1, c2, ct2)

	case models.StateRejected:
		run.res.Status = models.StatusNotTestedNonI1
		run.res.Message = rejectionMessage(run.res.Orders)
		g.log.Info(run.res.Message,
			logger.String("status", string(run.res.Status)),
			logger.Any("trail", run.res.Trail),
		)

	case models.StateTest:
		eg1, err := engleGranger(g.rt, run.s1, run.s2, models.DirectionS1OnS2, run.autolag)
		if err != nil {
			return err
		}
		eg2, err := engleGranger(g.rt, run.s2, run.s1, models.DirectionS2OnS1, run.autolag)
		if err != nil {
			return err
		}
		run.res.S1OnS2 = eg1
		run.res.S2OnS1 = eg2
		run.res.Status = models.StatusTested
	}
	return nil
}

func rejectionMessage(o models.IntegrationOrders) string {
	if o.Series1KPSSLevel == nil {
		return fmt.Sprintf("According to the ADF test series 1 is %s and series 2 is %s; "+
			"both series must be I(1) to perform the cointegration test",
			o.Series1ADF, o.Series2ADF)
	}
	return fmt.Sprintf("According to KPSS (c) series 1 is %s and series 2 is %s; "+
		"according to KPSS (ct) series 1 is %s and series 2 is %s; "+
		"both series must be I(1) under at least one specification to perform the cointegration test",
		*o.Series1KPSSLevel, *o.Series2KPSSLevel, *o.Series1KPSSTrend, *o.Series2KPSSTrend)
}
