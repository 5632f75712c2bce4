package repository

import (
	"context"

	"PairLink/internal/domain/models"
)

// ReportPublisher ships finished pair reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, report *models.PairReport) error
	Close() error
}

type Metrics interface {
	RecordEvaluation(op, status string)
	RecordFailSafe(test string)
	RecordError(kind string)
	RecordCache(result string)
	RecordMessageSent(topic string)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordEvaluation(string, string) {}
func (NopMetrics) RecordFailSafe(string)           {}
func (NopMetrics) RecordError(string)              {}
func (NopMetrics) RecordCache(string)              {}
func (NopMetrics) RecordMessageSent(string)        {}
func (NopMetrics) RecordLatency(string, float64)   {}
