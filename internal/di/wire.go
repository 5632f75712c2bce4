//go:build wireinject
// +build wireinject

package di

import (
	"PairLink/pkg/config"
	"PairLink/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideReportPublisher,

		// Use cases
		ProvidePairAnalyzer,
		ProvideKafkaPairsHandler,

		// HTTP
		ProvideRateLimiter,
		ProvidePairsHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
