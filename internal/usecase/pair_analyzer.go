package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"PairLink/internal/domain/models"
	domrepo "PairLink/internal/domain/repository"
	domsvc "PairLink/internal/domain/service"
	"PairLink/internal/services/pairs"
	"PairLink/pkg/cache"
	"PairLink/pkg/config"
	"PairLink/pkg/logger"
	"PairLink/pkg/stats"

	"golang.org/x/sync/errgroup"
)

// Operation names used for cache keys, metrics and logs.
const (
	OpCointegration    = "cointegration"
	OpMeanReversion    = "mean_reversion"
	OpIntegrationOrder = "integration_order"
	OpHurst            = "hurst"
	OpEvaluate         = "evaluate"
)

// HurstTolerance is the band around 0.5 reported as a random walk.
const HurstTolerance = 0.05

// PairAnalyzer runs the pair diagnostics behind validation, caching and
// metrics.
type PairAnalyzer struct {
	cfg       config.Analysis
	autolag   stats.LagSelection
	validator pairs.Validator
	tester    *pairs.IntegrationTester
	gate      *pairs.Gate
	cache     cache.Service
	metrics   domrepo.Metrics
	log       logger.Log
	tests     domsvc.UnitRootTester
}

// AnalyzerOption configures a PairAnalyzer.
type AnalyzerOption func(*PairAnalyzer)

// WithTests swaps the unit-root backend of every integration tester.
func WithTests(t domsvc.UnitRootTester) AnalyzerOption {
	return func(a *PairAnalyzer) {
		if t != nil {
			a.tests = t
		}
	}
}

// NewPairAnalyzer builds the analyzer from the analysis config. A nil cache
// disables caching.
func NewPairAnalyzer(cfg config.Analysis, c cache.Service, m domrepo.Metrics, l logger.Log, opts ...AnalyzerOption) (*PairAnalyzer, error) {
	autolag, err := stats.ParseLagSelection(cfg.Autolag)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.Noop{}
	}
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if l == nil {
		l = logger.Nop()
	}

	a := &PairAnalyzer{
		cfg:       cfg,
		autolag:   autolag,
		validator: pairs.NewValidator(cfg.MinObservations),
		cache:     c,
		metrics:   m,
		log:       l,
		tests:     domsvc.GonumTester{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tester = a.newTester(cfg.MaxDiff, cfg.Significance)
	a.gate = pairs.NewGate(a.tester, pairs.WithGateLogger(l))
	return a, nil
}

func (a *PairAnalyzer) newTester(maxDiff int, significance float64) *pairs.IntegrationTester {
	return pairs.NewIntegrationTester(
		pairs.WithUnitRootTester(a.tests),
		pairs.WithMaxDiff(maxDiff),
		pairs.WithSignificance(significance),
		pairs.WithLogger(a.log),
		pairs.WithFailSafeHook(func(k models.TestKind) {
			a.metrics.RecordFailSafe(string(k))
		}),
	)
}

// Cointegration runs the gated Engle-Granger test on a pair.
func (a *PairAnalyzer) Cointegration(ctx context.Context, in *models.CointegrationRequest) (*models.CointegrationResult, error) {
	return cached(ctx, a, OpCointegration, in, func() (*models.CointegrationResult, error) {
		if err := a.validator.Pair(in.Series1, in.Series2); err != nil {
			return nil, err
		}
		if err := a.validator.Index(len(in.Series1), in.Index1, in.Index2); err != nil {
			return nil, err
		}
		autolag, err := a.lagSelection(in.Autolag)
		if err != nil {
			return nil, err
		}
		return a.gate.TestCointegration(in.Series1, in.Series2, autolag)
	})
}

// MeanReversion measures half-life, empirical reversion and the Hurst
// exponent of the hedged spread.
func (a *PairAnalyzer) MeanReversion(ctx context.Context, in *models.MeanReversionRequest) (*models.MeanReversionReport, error) {
	return cached(ctx, a, OpMeanReversion, in, func() (*models.MeanReversionReport, error) {
		if err := a.validator.Pair(in.Y, in.X); err != nil {
			return nil, err
		}
		if err := a.validator.Index(len(in.Y), in.IndexY, in.IndexX); err != nil {
			return nil, err
		}
		return pairs.AnalyzeMeanReversion(in.Y, in.X)
	})
}

// IntegrationOrder finds the integration order of one series.
func (a *PairAnalyzer) IntegrationOrder(ctx context.Context, in *models.IntegrationOrderRequest) (*models.IntegrationOrderReport, error) {
	return cached(ctx, a, OpIntegrationOrder, in, func() (*models.IntegrationOrderReport, error) {
		if err := a.validator.Series("series", in.Series); err != nil {
			return nil, err
		}
		kind, err := models.ParseTestKind(in.Test)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pairs.ErrInvalidInput, err)
		}
		tester := a.tester
		if in.MaxDiff != a.tester.MaxDiff() || in.Significance != a.tester.Significance() {
			tester = a.newTester(in.MaxDiff, in.Significance)
		}
		return &models.IntegrationOrderReport{
			Finding:      tester.Determine(in.Series, kind),
			MaxDiff:      tester.MaxDiff(),
			Significance: tester.Significance(),
		}, nil
	})
}

// Hurst estimates the Hurst exponent of one series.
func (a *PairAnalyzer) Hurst(ctx context.Context, in *models.HurstRequest) (*models.HurstReport, error) {
	return cached(ctx, a, OpHurst, in, func() (*models.HurstReport, error) {
		h, err := pairs.HurstExponent(in.Series)
		if err != nil {
			return nil, err
		}
		return &models.HurstReport{
			Hurst:        h,
			Observations: len(in.Series),
			Regime:       pairs.HurstRegime(h, HurstTolerance),
		}, nil
	})
}

// Evaluate runs cointegration and mean reversion concurrently and merges
// them into one report.
func (a *PairAnalyzer) Evaluate(ctx context.Context, in *models.PairEvaluationRequest) (*models.PairReport, error) {
	return cached(ctx, a, OpEvaluate, in, func() (*models.PairReport, error) {
		report := &models.PairReport{
			SymbolY:      in.SymbolY,
			SymbolX:      in.SymbolX,
			Observations: len(in.Y),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			res, err := a.Cointegration(gctx, &models.CointegrationRequest{
				Series1: in.Y,
				Series2: in.X,
				Index1:  in.Index,
				Autolag: in.Autolag,
			})
			report.Cointegration = res
			return err
		})
		g.Go(func() error {
			res, err := a.MeanReversion(gctx, &models.MeanReversionRequest{
				Y:      in.Y,
				X:      in.X,
				IndexY: in.Index,
			})
			report.MeanReversion = res
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return report, nil
	})
}

func (a *PairAnalyzer) lagSelection(s string) (stats.LagSelection, error) {
	if s == "" {
		return a.autolag, nil
	}
	sel, err := stats.ParseLagSelection(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pairs.ErrInvalidInput, err)
	}
	return sel, nil
}

// cached serves op from the cache when the same input was seen within the
// TTL, otherwise computes and stores it. Cache failures are logged only.
func cached[T any](ctx context.Context, a *PairAnalyzer, op string, in interface{}, compute func() (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency(op, time.Since(start).Seconds())
	}()

	key := ""
	if raw, err := json.Marshal(in); err == nil {
		key = cache.GenerateKey("pair:"+op, cache.HashKey(raw))
	}

	if key != "" {
		out, err := cache.GetJSON[T](ctx, a.cache, key)
		switch {
		case err == nil:
			a.metrics.RecordCache("hit")
			a.metrics.RecordEvaluation(op, "cached")
			return out, nil
		case errors.Is(err, cache.ErrCacheMiss):
			a.metrics.RecordCache("miss")
		default:
			a.metrics.RecordCache("error")
			a.log.Warn("cache read failed", logger.String("op", op), logger.Error(err))
		}
	}

	out, err := compute()
	if err != nil {
		var zero T
		status := "error"
		if errors.Is(err, pairs.ErrInvalidInput) {
			status = "invalid"
		}
		a.metrics.RecordEvaluation(op, status)
		a.metrics.RecordError(op)
		return zero, err
	}
	a.metrics.RecordEvaluation(op, "ok")

	if key != "" && a.cfg.CacheTTL > 0 {
		if err := cache.SetJSON(ctx, a.cache, key, out, a.cfg.CacheTTL); err != nil {
			a.metrics.RecordCache("error")
			a.log.Warn("cache write failed", logger.String("op", op), logger.Error(err))
		}
	}
	return out, nil
}
