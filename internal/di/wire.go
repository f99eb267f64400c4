//go:build wireinject
// +build wireinject

package di

import (
	"Condor/pkg/config"
	"Condor/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvidePriceStore,
		ProvideForecastStore,
		ProvideExogenousStore,
		ProvidePublisher,
		ProvideMarketData,

		// Estimation pipeline
		ProvideSearchEngine,
		ProvidePriceForecaster,
		ProvideHistoryRefresher,

		// Queue and HTTP surface
		ProvideQueueRunner,
		ProvideQueueService,
		ProvideAPIHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
