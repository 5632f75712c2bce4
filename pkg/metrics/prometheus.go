package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations  *prometheus.CounterVec
	failSafes    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	cacheResults *prometheus.CounterVec
	messagesSent *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairlink_evaluations_total",
				Help: "Pair diagnostics run, by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		failSafes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairlink_failsafe_substitutions_total",
				Help: "Statistical test failures replaced by the conservative p-value",
			},
			[]string{"test"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairlink_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairlink_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
		messagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairlink_messages_sent_total",
				Help: "Reports published to the message bus",
			},
			[]string{"topic"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pairlink_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation counts one finished diagnostic.
func (r *Recorder) RecordEvaluation(op, status string) {
	r.evaluations.WithLabelValues(op, status).Inc()
}

// RecordFailSafe counts a substituted p-value for a test kind.
func (r *Recorder) RecordFailSafe(test string) {
	r.failSafes.WithLabelValues(test).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache records a cache hit or miss.
func (r *Recorder) RecordCache(result string) {
	r.cacheResults.WithLabelValues(result).Inc()
}

// RecordMessageSent records a report published to topic.
func (r *Recorder) RecordMessageSent(topic string) {
	r.messagesSent.WithLabelValues(topic).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
