package models

import "encoding/json"

// GateState is a state of the cointegration gate.
type GateState string

const (
	StateStart    GateState = "START"
	StateGate1    GateState = "GATE1"
	StateConfirm  GateState = "CONFIRM"
	StateGate2    GateState = "GATE2"
	StateTest     GateState = "TEST"
	StateRejected GateState = "REJECTED"
)

// Terminal reports whether no transition leaves s.
func (s GateState) Terminal() bool {
	return s == StateTest || s == StateRejected
}

// CointegrationStatus tags the outcome of the gate.
type CointegrationStatus string

const (
	StatusNotTestedNonI1 CointegrationStatus = "Not Tested - Non I(1)"
	StatusTested         CointegrationStatus = "Tested"
)

// Direction labels of the two Engle-Granger regressions.
const (
	DirectionS1OnS2 = "linest:s1_on_s2"
	DirectionS2OnS1 = "linest:s2_on_s1"
)

// DirectionalResult is one Engle-Granger regression with its residual test.
type DirectionalResult struct {
	Direction      string             `json:"direction"`
	IsCointegrated bool               `json:"is_cointegrated"`
	PValue         float64            `json:"p_value"`
	ADFStatistic   float64            `json:"adf_statistic"`
	CriticalValues map[string]float64 `json:"critical_values"`
	UsedLag        int                `json:"used_lag"`
	HedgeRatio     float64            `json:"hedge_ratio"`
	Intercept      float64            `json:"intercept"`
	Residuals      []float64          `json:"residuals"`
}

// IntegrationOrders holds the order findings the gate computed. KPSS
// findings are nil when the gate stopped at GATE1. An undetermined KPSS
// order is encoded as an explicit null, absent keys mean the confirm stage
// did not run.
type IntegrationOrders struct {
	Series1ADF       IntegrationOrder  `json:"series_1_adf"`
	Series2ADF       IntegrationOrder  `json:"series_2_adf"`
	Series1KPSSLevel *IntegrationOrder `json:"series_1_kpss_c,omitempty"`
	Series2KPSSLevel *IntegrationOrder `json:"series_2_kpss_c,omitempty"`
	Series1KPSSTrend *IntegrationOrder `json:"series_1_kpss_ct,omitempty"`
	Series2KPSSTrend *IntegrationOrder `json:"series_2_kpss_ct,omitempty"`
}

// UnmarshalJSON restores present-but-null KPSS keys as Undetermined.
func (o *IntegrationOrders) UnmarshalJSON(b []byte) error {
	type plain IntegrationOrders
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	for key, dst := range map[string]**IntegrationOrder{
		"series_1_kpss_c":  &p.Series1KPSSLevel,
		"series_2_kpss_c":  &p.Series2KPSSLevel,
		"series_1_kpss_ct": &p.Series1KPSSTrend,
		"series_2_kpss_ct": &p.Series2KPSSTrend,
	} {
		if _, ok := keys[key]; ok && *dst == nil {
			u := Undetermined
			*dst = &u
		}
	}
	*o = IntegrationOrders(p)
	return nil
}

// CointegrationResult is the report of the cointegration gate.
type CointegrationResult struct {
	Status   CointegrationStatus  `json:"status"`
	Orders   IntegrationOrders    `json:"integration"`
	Trail    []GateState          `json:"trail"`
	Findings []IntegrationFinding `json:"findings,omitempty"`
	Message  string               `json:"message,omitempty"`
	S1OnS2   *DirectionalResult   `json:"engle_linest_1_2,omitempty"`
	S2OnS1   *DirectionalResult   `json:"engle_linest_2_1,omitempty"`
}

// Tested reports whether both directional regressions ran.
func (r *CointegrationResult) Tested() bool {
	return r.Status == StatusTested
}

// Cointegrated reports whether at least one direction is cointegrated.
func (r *CointegrationResult) Cointegrated() bool {
	if !r.Tested() {
		return false
	}
	return (r.S1OnS2 != nil && r.S1OnS2.IsCointegrated) || (r.S2OnS1 != nil && r.S2OnS1.IsCointegrated)
}
