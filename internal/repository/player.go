package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"duel-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: sqlDB, logger: logger}
}

// Get reads one player row. Returns domain.ErrPlayerNotFound when the id is
// unknown.
func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, xp, rating, level, rank, rank_name, created_at, updated_at
		FROM players WHERE id = ?`, id)

	var p domain.Player
	err := row.Scan(&p.ID, &p.Name, &p.XP, &p.Rating, &p.Level, &p.Rank, &p.RankName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, domain.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read player %s: %w", id, err)
	}
	return &p, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p *domain.Player) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, name, xp, rating, level, rank, rank_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.XP, p.Rating, p.Level, p.Rank, p.RankName, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
	}
	return nil
}

// UpdateProgress writes the post-settlement fields of one player row. The two
// players of a match are updated as independent writes; there is no
// transaction spanning them and the attempt log (see the orchestrator).
func (r *PlayerRepository) UpdateProgress(ctx context.Context, p *domain.Player) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE players
		SET xp = ?, rating = ?, level = ?, rank = ?, rank_name = ?, updated_at = ?
		WHERE id = ?`,
		p.XP, p.Rating, p.Level, p.Rank, p.RankName, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of player %s: %w", p.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s: %w", p.ID, domain.ErrPlayerNotFound)
	}

	r.logger.Debug().
		Str("player_id", p.ID).
		Int("rating", p.Rating).
		Float64("xp", p.XP).
		Msg("player progress updated")
	return nil
}
