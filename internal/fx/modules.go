package fx

import (
	"pyball/internal/api"
	"pyball/internal/config"
	"pyball/internal/database"
	"pyball/internal/logger"
	"pyball/internal/repository"
	"pyball/internal/server"
	"pyball/internal/service"
	"pyball/internal/table"

	"go.uber.org/fx"
)

func ProvidePlayerFetcher(c *api.StatsClient) service.PlayerFetcher {
	return c
}

func ProvidePositionFetcher(c *api.StatsClient) service.PositionFetcher {
	return c
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewCandidateRepository),
	fx.Provide(repository.NewPositionRepository),
	fx.Provide(repository.NewSearchLogRepository),
	// api client
	fx.Provide(api.NewStatsClient),
	fx.Provide(ProvidePlayerFetcher),
	fx.Provide(ProvidePositionFetcher),
	// core
	fx.Provide(service.NewCandidateFilter),
	fx.Provide(table.NewRowCache),
	// svc
	fx.Provide(service.NewSearchService),
	fx.Provide(service.NewTableService),
	fx.Provide(service.NewCompareService),
	// server
	fx.Provide(server.NewStatsServer),
)
