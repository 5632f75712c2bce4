package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationOrder(t *testing.T) {
	assert.Equal(t, "I(1)", Order(1).String())
	assert.Equal(t, "I(None)", Undetermined.String())
	assert.True(t, Order(0).Determined())
	assert.True(t, Order(1).Is(1))
	assert.False(t, Undetermined.Is(0))

	d, ok := Order(2).Value()
	assert.Equal(t, 2, d)
	assert.True(t, ok)
}

func TestIntegrationOrderJSON(t *testing.T) {
	b, err := json.Marshal(IntegrationOrders{Series1ADF: Order(1), Series2ADF: Undetermined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"series_1_adf":1,"series_2_adf":null}`, string(b))

	var back IntegrationOrders
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Order(1), back.Series1ADF)
	assert.Equal(t, Undetermined, back.Series2ADF)

	var o IntegrationOrder
	assert.Error(t, json.Unmarshal([]byte(`"one"`), &o))
}

func TestIntegrationOrdersKeepUndeterminedKPSS(t *testing.T) {
	level1, level2 := Order(1), Undetermined
	trend1, trend2 := Order(1), Order(1)
	in := CointegrationResult{
		Status: StatusNotTestedNonI1,
		Orders: IntegrationOrders{
			Series1ADF:       Order(1),
			Series2ADF:       Order(1),
			Series1KPSSLevel: &level1,
			Series2KPSSLevel: &level2,
			Series1KPSSTrend: &trend1,
			Series2KPSSTrend: &trend2,
		},
		Trail: []GateState{StateStart, StateGate1, StateConfirm, StateGate2, StateRejected},
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"series_2_kpss_c":null`)

	var out CointegrationResult
	require.NoError(t, json.Unmarshal(b, &out))
	require.NotNil(t, out.Orders.Series2KPSSLevel)
	assert.Equal(t, Undetermined, *out.Orders.Series2KPSSLevel)
	require.NotNil(t, out.Orders.Series1KPSSLevel)
	assert.True(t, out.Orders.Series1KPSSLevel.Is(1))
	assert.Equal(t, in, out)

	var gate1 IntegrationOrders
	require.NoError(t, json.Unmarshal([]byte(`{"series_1_adf":0,"series_2_adf":1}`), &gate1))
	assert.Nil(t, gate1.Series1KPSSLevel)
	assert.Nil(t, gate1.Series2KPSSTrend)

	assert.Error(t, json.Unmarshal([]byte(`{"series_1_kpss_c":"one"}`), &gate1))
}

func TestReversionOutcome(t *testing.T) {
	r := Estimate(3.5)
	p, ok := r.Periods()
	assert.True(t, ok)
	assert.Equal(t, 3.5, p)
	assert.Equal(t, 3.5, r.Float())

	for _, bad := range []float64{math.Inf(1), math.NaN(), 0, -2} {
		assert.Equal(t, NotMeanReverting, Estimate(bad), bad)
	}
	assert.False(t, NotMeanReverting.MeanReverting())
	assert.True(t, math.IsInf(NotMeanReverting.Float(), 1))
	assert.Equal(t, "not mean reverting", NotMeanReverting.String())
}

func TestReversionJSON(t *testing.T) {
	b, err := json.Marshal(Estimate(2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mean_reverting":true,"periods":2}`, string(b))

	b, err = json.Marshal(NotMeanReverting)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mean_reverting":false}`, string(b))

	var r Reversion
	require.NoError(t, json.Unmarshal([]byte(`{"mean_reverting":true,"periods":7.25}`), &r))
	assert.Equal(t, Estimate(7.25), r)

	assert.Error(t, json.Unmarshal([]byte(`{"mean_reverting":true}`), &r))
}

func TestGateStateAndResult(t *testing.T) {
	assert.True(t, StateTest.Terminal())
	assert.True(t, StateRejected.Terminal())
	assert.False(t, StateConfirm.Terminal())

	rejected := &CointegrationResult{Status: StatusNotTestedNonI1}
	assert.False(t, rejected.Cointegrated())

	tested := &CointegrationResult{
		Status: StatusTested,
		S1OnS2: &DirectionalResult{IsCointegrated: false},
		S2OnS1: &DirectionalResult{IsCointegrated: true},
	}
	assert.True(t, tested.Cointegrated())
}

func TestParseTestKind(t *testing.T) {
	k, err := ParseTestKind("KPSS-ct")
	require.NoError(t, err)
	assert.Equal(t, TestKPSSTrend, k)

	_, err = ParseTestKind("PP")
	assert.Error(t, err)
}
