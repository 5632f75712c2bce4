package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestADFStationarySeries(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	x := ar1(rng, 500, 0.5, 1)

	res, err := ADF(x, DefaultADFOptions())
	require.NoError(t, err)

	assert.Less(t, res.Statistic, -5.0)
	assert.Less(t, res.PValue, 0.01)
	assert.Equal(t, len(x)-1-res.UsedLag, res.NObs)
}

func TestADFRandomWalkWithDrift(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := randomWalk(rng, 500, 0.5, 1)

	res, err := ADF(x, DefaultADFOptions())
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.05)

	diffs, err := ADF(DropNaN(Diff(x)), DefaultADFOptions())
	require.NoError(t, err)
	assert.Less(t, diffs.PValue, 0.01)
}

func TestADFLagSelection(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	x := ar1(rng, 300, 0.7, 1)

	for _, sel := range []LagSelection{LagAIC, LagBIC, LagTStat} {
		res, err := ADF(x, ADFOptions{MaxLag: 6, Regression: RegressionConstant, Autolag: sel})
		require.NoError(t, err, sel)
		assert.GreaterOrEqual(t, res.UsedLag, 0, sel)
		assert.LessOrEqual(t, res.UsedLag, 6, sel)
	}

	res, err := ADF(x, ADFOptions{MaxLag: 3, Autolag: LagNone})
	require.NoError(t, err)
	assert.Equal(t, 3, res.UsedLag)
	assert.Equal(t, len(x)-1-3, res.NObs)
	assert.Zero(t, res.ICBest)
}

func TestADFTrendRegression(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	x := ar1(rng, 400, 0.3, 1)
	for i := range x {
		x[i] += 0.05 * float64(i)
	}

	res, err := ADF(x, ADFOptions{MaxLag: -1, Regression: RegressionConstantTrend, Autolag: LagAIC})
	require.NoError(t, err)
	assert.Less(t, res.PValue, 0.01)
	assert.Less(t, res.CriticalValues["1%"], res.CriticalValues["5%"])
}

func TestADFCriticalValues(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	res, err := ADF(whiteNoise(rng, 2000, 1), ADFOptions{MaxLag: 0, Autolag: LagNone})
	require.NoError(t, err)

	assert.InDelta(t, -3.434, res.CriticalValues["1%"], 0.01)
	assert.InDelta(t, -2.863, res.CriticalValues["5%"], 0.01)
	assert.InDelta(t, -2.568, res.CriticalValues["10%"], 0.01)
}

func TestADFErrors(t *testing.T) {
	_, err := ADF([]float64{1, 1, 1, 1, 1, 1, 1, 1}, DefaultADFOptions())
	assert.ErrorIs(t, err, ErrConstantSeries)

	_, err = ADF([]float64{1, 2}, DefaultADFOptions())
	assert.ErrorIs(t, err, ErrSampleTooShort)

	_, err = ADF([]float64{1, 2, 4}, DefaultADFOptions())
	assert.ErrorIs(t, err, ErrSampleTooShort)

	_, err = ADF([]float64{1, 3, 2, 5, 4}, ADFOptions{Regression: "nc"})
	assert.Error(t, err)
}

func TestADFDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	x := randomWalk(rng, 200, 0, 1)

	a, err := ADF(x, DefaultADFOptions())
	require.NoError(t, err)
	b, err := ADF(x, DefaultADFOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMacKinnonP(t *testing.T) {
	tests := []struct {
		stat float64
		want float64
	}{
		{-2.86, 0.0502},
		{-3.43, 0.0100},
		{-1.0, 0.7533},
		{0.5, 0.9849},
	}
	for _, tt := range tests {
		got := MacKinnonP(tt.stat, RegressionConstant)
		assert.True(t, almostEqual(got, tt.want, 1e-3), "stat %v: got %v want %v", tt.stat, got, tt.want)
	}

	assert.Equal(t, 0.0, MacKinnonP(-30, RegressionConstant))
	assert.Equal(t, 1.0, MacKinnonP(3, RegressionConstant))
}

func TestParseLagSelection(t *testing.T) {
	tests := map[string]LagSelection{
		"":       LagAIC,
		"AIC":    LagAIC,
		"bic":    LagBIC,
		"t-stat": LagTStat,
		"none":   LagNone,
	}
	for in, want := range tests {
		got, err := ParseLagSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLagSelection("hqic")
	assert.Error(t, err)
}
