//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"cpd/internal"
	"cpd/internal/controllers"
	"cpd/internal/providers"
	"cpd/internal/scheduler"
	"cpd/internal/services"
	"cpd/internal/storage"
	"cpd/internal/structures"
	"cpd/internal/views"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,

	storage.NewZstdCompressor,
	storage.NewStore,
	services.NewProfileService,
	services.NewStatsFetcher,
	services.NewDashboardService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		views.NewRenderer,
		scheduler.NewScheduler,
		controllers.NewPageController,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitRuntime(cfg *structures.CliFlags) (*Runtime, error) {

	wire.Build(
		coreSet,
		wire.Struct(new(Runtime), "*"),
	)

	return nil, nil
}
