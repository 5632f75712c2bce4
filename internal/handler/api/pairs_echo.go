package api

import (
	"context"
	"errors"
	"strings"

	"PairLink/internal/domain/models"
	"PairLink/internal/services/pairs"
	xhttp "PairLink/pkg/http"
	xlogger "PairLink/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Analyzer is the usecase surface served over HTTP.
type Analyzer interface {
	Cointegration(ctx context.Context, in *models.CointegrationRequest) (*models.CointegrationResult, error)
	MeanReversion(ctx context.Context, in *models.MeanReversionRequest) (*models.MeanReversionReport, error)
	IntegrationOrder(ctx context.Context, in *models.IntegrationOrderRequest) (*models.IntegrationOrderReport, error)
	Hurst(ctx context.Context, in *models.HurstRequest) (*models.HurstReport, error)
	Evaluate(ctx context.Context, in *models.PairEvaluationRequest) (*models.PairReport, error)
}

// PairsEchoHandler exposes the pair diagnostics over Echo.
type PairsEchoHandler struct {
	logger   xlogger.Log
	analyzer Analyzer
}

func NewPairsEchoHandler(logger xlogger.Log, analyzer Analyzer) *PairsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PairsEchoHandler{logger: logger, analyzer: analyzer}
}

func (h *PairsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/pairs/cointegration", h.Cointegration)
	g.POST("/pairs/mean-reversion", h.MeanReversion)
	g.POST("/pairs/evaluate", h.Evaluate)
	g.POST("/series/integration-order", h.IntegrationOrder)
	g.POST("/series/hurst", h.Hurst)
}

func (h *PairsEchoHandler) Cointegration(c echo.Context) error {
	req := &models.CointegrationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analyzer.Cointegration(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "cointegration", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PairsEchoHandler) MeanReversion(c echo.Context) error {
	req := &models.MeanReversionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analyzer.MeanReversion(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "mean reversion", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PairsEchoHandler) Evaluate(c echo.Context) error {
	req := &models.PairEvaluationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analyzer.Evaluate(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "evaluate", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PairsEchoHandler) IntegrationOrder(c echo.Context) error {
	req := &models.IntegrationOrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analyzer.IntegrationOrder(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "integration order", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PairsEchoHandler) Hurst(c echo.Context) error {
	req := &models.HurstRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analyzer.Hurst(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "hurst", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// fail maps invalid series to a 400 envelope and anything else to 500.
func (h *PairsEchoHandler) fail(c echo.Context, op string, err error) error {
	if errors.Is(err, pairs.ErrInvalidInput) {
		h.logger.Warn(op+" rejected input", xlogger.Error(err))
		msg := strings.TrimPrefix(err.Error(), pairs.ErrInvalidInput.Error()+": ")
		return xhttp.AppErrorResponse(c, xhttp.InvalidInputError("", msg).WithError(err))
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
}
