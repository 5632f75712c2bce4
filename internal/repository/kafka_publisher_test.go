package repository

import (
	"context"
	"errors"
	"testing"

	"PairLink/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	topic  string
	key    []byte
	value  interface{}
	err    error
	closed bool
}

func (p *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return p.err
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

type countingMetrics struct {
	sent map[string]int
}

func (m *countingMetrics) RecordEvaluation(string, string) {}
func (m *countingMetrics) RecordFailSafe(string)           {}
func (m *countingMetrics) RecordError(string)              {}
func (m *countingMetrics) RecordCache(string)              {}
func (m *countingMetrics) RecordMessageSent(topic string)  { m.sent[topic]++ }
func (m *countingMetrics) RecordLatency(string, float64)   {}

func TestKafkaPublisherPublish(t *testing.T) {
	p := &recordingProducer{}
	m := &countingMetrics{sent: map[string]int{}}
	pub := NewKafkaPublisher(p, "reports", m)

	report := &models.PairReport{SymbolY: "KO", SymbolX: "PEP", Observations: 250}
	require.NoError(t, pub.Publish(context.Background(), report))

	assert.Equal(t, "reports", p.topic)
	assert.Equal(t, []byte("KO/PEP"), p.key)
	assert.Same(t, report, p.value)
	assert.Equal(t, 1, m.sent["reports"])

	p.err = errors.New("broker down")
	assert.Error(t, pub.Publish(context.Background(), report))
	assert.Equal(t, 1, m.sent["reports"])

	require.NoError(t, pub.Close())
	assert.True(t, p.closed)
}

func TestReportKey(t *testing.T) {
	assert.Nil(t, ReportKey(&models.PairReport{}))
	assert.Equal(t, []byte("KO/"), ReportKey(&models.PairReport{SymbolY: "KO"}))
}
