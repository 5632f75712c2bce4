package di

import (
	"context"
	"fmt"
	"time"

	domrepo "PairLink/internal/domain/repository"
	"PairLink/internal/handler/api"
	internalrepo "PairLink/internal/repository"
	"PairLink/internal/service/ratelimit"
	"PairLink/internal/usecase"
	"PairLink/pkg/cache"
	"PairLink/pkg/config"
	xhttp "PairLink/pkg/http"
	pkgkafka "PairLink/pkg/kafka"
	applogger "PairLink/pkg/logger"
	"PairLink/pkg/metrics"
	"PairLink/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (applogger.Log, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry shared by every component.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) domrepo.Metrics {
	return metrics.NewWithRegistry(reg)
}

// ProvideCache builds the result cache: in-memory, layered over Redis when
// Redis is enabled, or a no-op when caching is off.
func ProvideCache(cfg *config.Config, l applogger.Log) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return cache.Noop{}, nil
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryDefaultTTL(cfg.Analysis.CacheTTL),
		), nil
	}

	remote, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(10, 2, 3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", applogger.String("addr", cfg.Cache.Redis.Addr))
	return cache.NewLayeredCache(remote,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(time.Minute),
	), nil
}

// ProvidePairAnalyzer creates the diagnostics use case.
func ProvidePairAnalyzer(cfg *config.Config, c cache.Service, m domrepo.Metrics, l applogger.Log) (*usecase.PairAnalyzer, error) {
	a, err := usecase.NewPairAnalyzer(cfg.Analysis, c, m, l)
	if err != nil {
		return nil, fmt.Errorf("pair analyzer: %w", err)
	}
	return a, nil
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.Server.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, 10*time.Minute)
}

// ProvidePairsHandler creates the HTTP handler.
func ProvidePairsHandler(l applogger.Log, a *usecase.PairAnalyzer) *api.PairsEchoHandler {
	return api.NewPairsEchoHandler(l, a)
}

// ProvideHTTPServer creates the Echo server with the pairs routes.
func ProvideHTTPServer(cfg *config.Config, l applogger.Log, reg *prometheus.Registry, h *api.PairsEchoHandler, rl *ratelimit.Limiter) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithLogger(l),
		xhttp.WithRegistry(reg, reg),
		xhttp.WithMetricsPath(metricsPath),
	}
	if rl != nil {
		opts = append(opts, xhttp.WithMiddleware(rl.Middleware()))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher wraps the producer for the report topic.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config, m domrepo.Metrics) domrepo.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ReportTopic, m)
}

// ProvideKafkaConsumer creates the request consumer, or nil when Kafka is off.
func ProvideKafkaConsumer(cfg *config.Config, l applogger.Log, reg *prometheus.Registry, m domrepo.Metrics) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	failures := pkgkafka.HookFuncs{
		After: func(_ context.Context, topic string, _ kafka.Message, err error) {
			if err != nil {
				m.RecordError("consume_" + topic)
			}
		},
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
		pkgkafka.WithConsumerRegisterer(reg),
		pkgkafka.WithConsumerHook(pkgkafka.HookChain{pkgkafka.RequestIDHook{}, failures}),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaPairsHandler returns nil without a report publisher.
func ProvideKafkaPairsHandler(cfg *config.Config, a *usecase.PairAnalyzer, pub domrepo.ReportPublisher, m domrepo.Metrics, l applogger.Log) *usecase.KafkaPairsHandler {
	if pub == nil {
		return nil
	}
	return usecase.NewKafkaPairsHandler(cfg.Kafka.RequestTopic, a, pub, m, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l applogger.Log,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPairsHandler,
	pub domrepo.ReportPublisher,
	c cache.Service,
	rl *ratelimit.Limiter,
) *server.App {
	opts := []server.Option{server.WithCache(c)}
	if consumer != nil && kh != nil {
		opts = append(opts, server.WithConsumer(consumer, kh))
	}
	if pub != nil {
		opts = append(opts, server.WithPublisher(pub))
	}
	if rl != nil {
		opts = append(opts, server.WithLimiter(rl))
	}
	return server.New(cfg, l, srv, opts...)
}
