package pairs

import (
	"math/rand"
	"testing"

	"PairLink/internal/domain/models"
	"PairLink/pkg/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngleGrangerCointegratedPair(t *testing.T) {
	rng := rand.New(rand.NewSource(67))
	x := randomWalk(rng, 400, 0.3, 1)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 3 + 2*x[i] + rng.NormFloat64()
	}

	res, err := EngleGranger(y, x, models.DirectionS1OnS2, stats.LagAIC)
	require.NoError(t, err)

	assert.True(t, res.IsCointegrated)
	assert.Less(t, res.PValue, CointegrationLevel)
	assert.InDelta(t, 2.0, res.HedgeRatio, 0.02)
	assert.InDelta(t, 3.0, res.Intercept, 1.5)
	assert.Len(t, res.Residuals, len(y))
	assert.Contains(t, res.CriticalValues, "5%")
	assert.Equal(t, models.DirectionS1OnS2, res.Direction)
}

func TestEngleGrangerResidualsSumToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(71))
	x := randomWalk(rng, 100, 0, 1)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = x[i] + rng.NormFloat64()
	}

	res, err := EngleGranger(y, x, "y_on_x", stats.LagNone)
	require.NoError(t, err)

	sum := 0.0
	for _, r := range res.Residuals {
		sum += r
	}
	assert.InDelta(t, 0, sum, 1e-8)
}

func TestEngleGrangerErrors(t *testing.T) {
	_, err := EngleGranger([]float64{1, 2, 3}, []float64{1, 2}, "a", stats.LagAIC)
	assert.ErrorIs(t, err, ErrInvalidInput)

	flat := seq(30, func(int) float64 { return 4 })
	_, err = EngleGranger(seq(30, func(i int) float64 { return float64(i) }), flat, "a", stats.LagAIC)
	assert.ErrorIs(t, err, stats.ErrSingularDesign)

	_, err = engleGranger(failingTester{}, seq(30, func(i int) float64 { return float64(i % 4) }),
		seq(30, func(i int) float64 { return float64(i) }), "a", stats.LagAIC)
	assert.ErrorIs(t, err, errScripted)
}
