package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	got := Diff([]float64{1, 3, 6, math.NaN(), 10})
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 2.0, got[1])
	assert.Equal(t, 3.0, got[2])
	assert.True(t, math.IsNaN(got[3]))
	assert.True(t, math.IsNaN(got[4]))

	assert.Empty(t, Diff(nil))
}

func TestDiffTwiceThenDrop(t *testing.T) {
	x := []float64{1, 4, 9, 16, 25}
	got := DropNaN(Diff(Diff(x)))
	assert.Equal(t, []float64{2, 2, 2}, got)
}

func TestLagAndLagDiff(t *testing.T) {
	x := []float64{1, 2, 4, 8}

	lagged := Lag(x, 1)
	assert.True(t, math.IsNaN(lagged[0]))
	assert.Equal(t, []float64{1, 2, 4}, lagged[1:])

	assert.Equal(t, []float64{3, 6}, LagDiff(x, 2))
	assert.Nil(t, LagDiff(x, 0))
	assert.Nil(t, LagDiff(x, 4))
}

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 0.10, got[0], 1e-12)
	assert.InDelta(t, -0.10, got[1], 1e-12)
	assert.Nil(t, PctChange([]float64{1}))
}

func TestAllFiniteAndIsConstant(t *testing.T) {
	assert.True(t, AllFinite([]float64{1, -2, 0}))
	assert.False(t, AllFinite([]float64{1, math.Inf(1)}))
	assert.False(t, AllFinite([]float64{math.NaN()}))

	assert.True(t, IsConstant(nil))
	assert.True(t, IsConstant([]float64{3, 3, 3}))
	assert.False(t, IsConstant([]float64{3, 3, 3.0001}))
}
