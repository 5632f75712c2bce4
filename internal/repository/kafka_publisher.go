package repository

import (
	"context"

	"PairLink/internal/domain/models"
	"PairLink/internal/domain/repository"
)

// producer is the part of *pkgkafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaPublisher implements ReportPublisher for Kafka.
type KafkaPublisher struct {
	producer producer
	topic    string
	metrics  repository.Metrics
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(p producer, topic string, metrics repository.Metrics) repository.ReportPublisher {
	if metrics == nil {
		metrics = repository.NopMetrics{}
	}
	return &KafkaPublisher{producer: p, topic: topic, metrics: metrics}
}

// Publish keys the report by "symbol_y/symbol_x" so reports of one pair
// keep their order.
func (p *KafkaPublisher) Publish(ctx context.Context, r *models.PairReport) error {
	if err := p.producer.Publish(ctx, p.topic, ReportKey(r), r); err != nil {
		return err
	}
	p.metrics.RecordMessageSent(p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// ReportKey returns the partition key of a report. Reports without symbols
// are unkeyed.
func ReportKey(r *models.PairReport) []byte {
	if r.SymbolY == "" && r.SymbolX == "" {
		return nil
	}
	return []byte(r.SymbolY + "/" + r.SymbolX)
}
