package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordEvaluation("cointegration", "tested")
	r.RecordEvaluation("cointegration", "tested")
	r.RecordFailSafe("ADF")
	r.RecordError("invalid_input")
	r.RecordCache("hit")
	r.RecordMessageSent("pair-reports")
	r.RecordLatency("evaluate", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("cointegration", "tested")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failSafes.WithLabelValues("ADF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("invalid_input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheResults.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.messagesSent.WithLabelValues("pair-reports")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestRecorderRegistriesAreIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}
