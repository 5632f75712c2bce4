package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"PairLink/internal/domain/models"
	domrepo "PairLink/internal/domain/repository"
	"PairLink/internal/services/pairs"
	xhttp "PairLink/pkg/http"
	pkgkafka "PairLink/pkg/kafka"
	"PairLink/pkg/logger"
)

// KafkaPairsHandler consumes evaluation requests and publishes one report
// per request.
type KafkaPairsHandler struct {
	topic     string
	analyzer  *PairAnalyzer
	publisher domrepo.ReportPublisher
	metrics   domrepo.Metrics
	log       logger.Log
}

func NewKafkaPairsHandler(topic string, analyzer *PairAnalyzer, publisher domrepo.ReportPublisher, metrics domrepo.Metrics, l logger.Log) *KafkaPairsHandler {
	return &KafkaPairsHandler{topic: topic, analyzer: analyzer, publisher: publisher, metrics: metrics, log: l}
}

func (h *KafkaPairsHandler) Topic() string { return h.topic }

// Handle decodes a PairEvaluationRequest. Undecodable or invalid requests
// are not retried.
func (h *KafkaPairsHandler) Handle(ctx context.Context, b []byte) error {
	var req models.PairEvaluationRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode evaluation request: %v: %w", err, pkgkafka.ErrNonRetryable)
	}
	if errs := xhttp.ApplyDefaultsAndValidate(ctx, &req); errs != nil {
		h.metrics.RecordError("consumer_validate")
		return fmt.Errorf("invalid evaluation request: %s: %w", describe(errs), pkgkafka.ErrNonRetryable)
	}

	report, err := h.analyzer.Evaluate(ctx, &req)
	if err != nil {
		if errors.Is(err, pairs.ErrInvalidInput) {
			return fmt.Errorf("%v: %w", err, pkgkafka.ErrNonRetryable)
		}
		return err
	}

	if err := h.publisher.Publish(ctx, report); err != nil {
		h.metrics.RecordError("publish_report")
		return err
	}
	h.log.Info("pair report published",
		logger.String("request_id", pkgkafka.RequestIDFromContext(ctx)),
		logger.String("symbol_y", req.SymbolY),
		logger.String("symbol_x", req.SymbolX),
		logger.String("status", string(report.Cointegration.Status)),
	)
	return nil
}

func describe(errs []xhttp.ValidationError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var _ pkgkafka.MessageHandler = (*KafkaPairsHandler)(nil)
