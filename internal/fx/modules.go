package fx

import (
	"database/sql"
	"esc-cup/internal/api"
	"esc-cup/internal/config"
	"esc-cup/internal/database"
	"esc-cup/internal/db"
	"esc-cup/internal/logger"
	"esc-cup/internal/repository"
	"esc-cup/internal/server"
	"esc-cup/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvidePlayerRegistry(players *repository.PlayerRepository) service.PlayerRegistry {
	return players
}

func ProvideTierLookup(client *api.RiotClient) service.TierLookup {
	return client
}

func ProvideMatchFetcher(client *api.RiotClient) service.MatchFetcher {
	return client
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewTxRunner),
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewIngestionLogRepository),
	// api client
	fx.Provide(api.NewRiotClient),
	fx.Provide(ProvidePlayerRegistry),
	fx.Provide(ProvideTierLookup),
	fx.Provide(ProvideMatchFetcher),
	// svc
	fx.Provide(service.NewNormalizer),
	fx.Provide(service.NewBracketService),
	fx.Provide(service.NewIngestionService),
	fx.Provide(service.NewDraftService),
	// server
	fx.Provide(server.NewTournamentServer),
	fx.Provide(server.NewDraftServer),
)
