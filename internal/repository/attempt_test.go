package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"duel-ladder/internal/config"
	"duel-ladder/internal/database"
	"duel-ladder/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "repo_test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func attempt(playerID, fingerprint string, ratingChange int, at time.Time) domain.AttemptRecord {
	return domain.AttemptRecord{
		PlayerID:     playerID,
		Fingerprint:  fingerprint,
		RatingBefore: 1000,
		RatingAfter:  1000 + ratingChange,
		RatingChange: ratingChange,
		XPBefore:     0,
		XPAfter:      10,
		XPChange:     10,
		Kind:         domain.AttemptKindMulti,
		CreatedAt:    at,
	}
}

func TestAttemptInsertBatchAssignsIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db, zerolog.Nop())

	now := time.Now()
	err := repo.InsertBatch(context.Background(), []domain.AttemptRecord{
		attempt("alice", "alice-bob-1-100", 20, now),
		attempt("bob", "alice-bob-1-100", -20, now),
	})
	require.NoError(t, err)

	records, err := repo.GetByPlayer(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, 20, records[0].RatingChange)
	assert.Equal(t, "alice-bob-1-100", records[0].Fingerprint)
}

func TestAttemptQueryRecentHonorsWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db, zerolog.Nop())

	now := time.Now()
	old := now.Add(-10 * time.Minute)
	require.NoError(t, repo.InsertBatch(context.Background(), []domain.AttemptRecord{
		attempt("alice", "alice-bob-1-100", 15, old),
		attempt("bob", "alice-bob-1-100", -15, old),
		attempt("alice", "alice-bob-1-100", 20, now),
		attempt("bob", "alice-bob-1-100", -20, now),
	}))

	records, err := repo.QueryRecent(context.Background(), "alice-bob-1-100", now.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.Len(t, records, 2, "records outside the window are excluded")
	for _, rec := range records {
		assert.WithinDuration(t, now, rec.CreatedAt, time.Second)
	}
}

func TestAttemptQueryRecentFiltersFingerprint(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db, zerolog.Nop())

	now := time.Now()
	require.NoError(t, repo.InsertBatch(context.Background(), []domain.AttemptRecord{
		attempt("alice", "alice-bob-1-100", 20, now),
		attempt("bob", "alice-bob-1-100", -20, now),
		attempt("alice", "alice-bob-0-100", -18, now.Add(time.Second)),
		attempt("bob", "alice-bob-0-100", 18, now.Add(time.Second)),
	}))

	records, err := repo.QueryRecent(context.Background(), "alice-bob-1-100", now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, records, 2, "rows of another fingerprint are excluded")
	for _, rec := range records {
		assert.Equal(t, "alice-bob-1-100", rec.Fingerprint)
	}
}

func TestAttemptGetByPlayerLimitAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db, zerolog.Nop())

	base := time.Now().Add(-time.Hour)
	var records []domain.AttemptRecord
	for i := 0; i < 5; i++ {
		records = append(records, attempt("alice", "alice-bob-1-100", i, base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, repo.InsertBatch(context.Background(), records))

	got, err := repo.GetByPlayer(context.Background(), "alice", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 4, got[0].RatingChange, "newest first")
	assert.Equal(t, 2, got[2].RatingChange)
}

func TestPlayerRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	player := &domain.Player{
		ID: "alice", Name: "Alice", XP: 120.5, Rating: 1010,
		Level: 2, Rank: 2, RankName: "Silver",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Insert(ctx, player))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1010, got.Rating)
	assert.Equal(t, 120.5, got.XP)
	assert.Equal(t, "Silver", got.RankName)
}

func TestPlayerGetUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestPlayerUpdateProgressUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())

	err := repo.UpdateProgress(context.Background(), &domain.Player{ID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}
