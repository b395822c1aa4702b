package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duel-ladder/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type AttemptRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAttemptRepository(sqlDB *sql.DB, logger zerolog.Logger) *AttemptRepository {
	return &AttemptRepository{db: sqlDB, logger: logger}
}

// InsertBatch writes a set of attempt records in one transaction. The records
// of one settled match share a CreatedAt; that shared timestamp is what the
// lookback scan groups by.
func (r *AttemptRepository) InsertBatch(ctx context.Context, records []domain.AttemptRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		id := record.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO settlement_attempts
				(id, player_id, fingerprint, rating_before, rating_after, rating_change,
				 xp_before, xp_after, xp_change, kind, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, record.PlayerID, record.Fingerprint, record.RatingBefore, record.RatingAfter, record.RatingChange,
			record.XPBefore, record.XPAfter, record.XPChange, record.Kind, record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert attempt for player %s: %w", record.PlayerID, err)
		}
	}

	return tx.Commit()
}

// QueryRecent returns attempt records carrying the given fingerprint written
// at or after since, newest first. A rematch of the same pair with another
// outcome or pool carries another fingerprint and is never returned.
func (r *AttemptRepository) QueryRecent(ctx context.Context, fingerprint string, since time.Time) ([]domain.AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, fingerprint, rating_before, rating_after, rating_change,
		       xp_before, xp_after, xp_change, kind, created_at
		FROM settlement_attempts
		WHERE fingerprint = ? AND created_at >= ?
		ORDER BY created_at DESC`, fingerprint, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// GetByPlayer returns a player's most recent attempt records.
func (r *AttemptRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]domain.AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, fingerprint, rating_before, rating_after, rating_change,
		       xp_before, xp_after, xp_change, kind, created_at
		FROM settlement_attempts
		WHERE player_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts for player %s: %w", playerID, err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]domain.AttemptRecord, error) {
	var records []domain.AttemptRecord
	for rows.Next() {
		var rec domain.AttemptRecord
		err := rows.Scan(&rec.ID, &rec.PlayerID, &rec.Fingerprint, &rec.RatingBefore, &rec.RatingAfter, &rec.RatingChange,
			&rec.XPBefore, &rec.XPAfter, &rec.XPChange, &rec.Kind, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
