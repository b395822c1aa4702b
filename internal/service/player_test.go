package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"duel-ladder/internal/config"
	"duel-ladder/internal/database"
	"duel-ladder/internal/domain"
	"duel-ladder/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*PlayerService, *sql.DB) {
	t.Helper()
	logger := zerolog.Nop()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "svc_test.db")}
	db, err := database.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	players := repository.NewPlayerRepository(db, logger)
	attempts := repository.NewAttemptRepository(db, logger)
	return NewPlayerService(players, attempts, logger), db
}

func TestRegisterDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	player, err := svc.Register(context.Background(), "", "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, player.ID, "id generated when not supplied")
	assert.Equal(t, 1000, player.Rating)
	assert.Equal(t, 0.0, player.XP)
	assert.Equal(t, 1, player.Level)
	assert.Equal(t, "Unranked", player.RankName)
}

func TestRegisterWithSuppliedID(t *testing.T) {
	svc, _ := newTestService(t)

	player, err := svc.Register(context.Background(), "ext-42", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "ext-42", player.ID)

	got, err := svc.GetPlayer(context.Background(), "ext-42")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestRegisterRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "", "")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRegisterDuplicateID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "alice", "Alice Again")
	assert.Error(t, err)
}

func TestHistoryUnknownPlayer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.History(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestHistoryEmptyForNewPlayer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "Alice")
	require.NoError(t, err)

	records, err := svc.History(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
