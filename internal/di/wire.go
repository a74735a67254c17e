//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure
		ProvideLogger,
		ProvideCache,

		// Repositories
		ProvideHistorySource,
		ProvideWatchlistStore,
		ProvideReportWriter,

		// Use cases
		ProvideProcessor,
		ProvideScreener,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
