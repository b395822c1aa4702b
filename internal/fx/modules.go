package fx

import (
	"duel-ladder/internal/config"
	"duel-ladder/internal/constants"
	"duel-ladder/internal/database"
	"duel-ladder/internal/dedup"
	"duel-ladder/internal/enrichment"
	"duel-ladder/internal/logger"
	"duel-ladder/internal/repository"
	"duel-ladder/internal/server"
	"duel-ladder/internal/service"
	"duel-ladder/internal/settlement"

	"go.uber.org/fx"
)

func ProvideResultCache(cfg *config.Config) *dedup.ResultCache {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.ResultCacheTTL
	}
	return dedup.NewResultCache(ttl)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideResultCache),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewAttemptRepository),
	// collaborators
	fx.Provide(enrichment.New),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(settlement.NewService),
	// server
	fx.Provide(server.NewLadderServer),
)
