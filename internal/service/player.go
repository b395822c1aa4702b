package service

import (
	"context"
	"time"

	"duel-ladder/internal/constants"
	"duel-ladder/internal/domain"
	"duel-ladder/internal/progression"
	"duel-ladder/internal/rating"
	"duel-ladder/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PlayerService struct {
	players  *repository.PlayerRepository
	attempts *repository.AttemptRepository
	logger   zerolog.Logger
}

func NewPlayerService(players *repository.PlayerRepository, attempts *repository.AttemptRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{players: players, attempts: attempts, logger: logger}
}

// Register creates a player at the starting rating, no XP, unranked. The id
// may be supplied (external account systems) or is generated.
func (s *PlayerService) Register(ctx context.Context, id, name string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}

	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	player := &domain.Player{
		ID:        id,
		Name:      name,
		XP:        0,
		Rating:    rating.DefaultRating,
		Level:     progression.LevelFor(0),
		Rank:      progression.RankUnranked,
		RankName:  progression.RankName(progression.RankUnranked),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.players.Insert(ctx, player); err != nil {
		s.logger.Error().Err(err).Str("player_id", id).Msg("failed to register player")
		return nil, err
	}

	s.logger.Info().Str("player_id", id).Str("name", name).Msg("player registered")
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.Get(ctx, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("player_id", id).Msg("player lookup failed")
		return nil, err
	}
	return player, nil
}

// History returns a player's most recent settlement records, newest first.
func (s *PlayerService) History(ctx context.Context, id string, limit int) ([]domain.AttemptRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.HistoryDefaultLimit
	}
	if limit > constants.HistoryMaxLimit {
		limit = constants.HistoryMaxLimit
	}

	// Unknown player reads as 404, not an empty history.
	if _, err := s.players.Get(ctx, id); err != nil {
		return nil, err
	}

	return s.attempts.GetByPlayer(ctx, id, limit)
}
