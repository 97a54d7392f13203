package sessions

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "sessions.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_FinishSession(t *testing.T) {
	repo := setupTestDB(t)
	start := time.Now().Add(-25 * time.Minute)
	session := &entities.WritingSession{BookVariant: entities.BookVariantFull, StartedAt: start}
	require.NoError(t, repo.CreateSession(session))

	finished, err := repo.FinishSession(session.ID, start.Add(25*time.Minute), 640)

	require.NoError(t, err)
	assert.Equal(t, 640, finished.WordsWritten)
	assert.Equal(t, 1500, finished.DurationSeconds)
	require.NotNil(t, finished.EndedAt)

	_, err = repo.FinishSession(session.ID, time.Now(), 1)
	assert.True(t, errors.Is(err, entities.ErrValidation))
}

func TestRepository_FinishSession_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.FinishSession("missing", time.Now(), 0)

	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestRepository_Totals_OnlyCountsWindow(t *testing.T) {
	repo := setupTestDB(t)
	today := time.Now().Truncate(24 * time.Hour)

	old := &entities.WritingSession{BookVariant: entities.BookVariantFull, StartedAt: today.Add(-2 * time.Hour)}
	require.NoError(t, repo.CreateSession(old))
	_, err := repo.FinishSession(old.ID, old.StartedAt.Add(time.Hour), 999)
	require.NoError(t, err)

	recent := &entities.WritingSession{BookVariant: entities.BookVariantFull, StartedAt: today.Add(time.Hour)}
	require.NoError(t, repo.CreateSession(recent))
	_, err = repo.FinishSession(recent.ID, recent.StartedAt.Add(10*time.Minute), 200)
	require.NoError(t, err)

	other := &entities.WritingSession{BookVariant: entities.BookVariantBooklet, StartedAt: today.Add(time.Hour)}
	require.NoError(t, repo.CreateSession(other))

	totals, err := repo.Totals(entities.BookVariantFull, today)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionTotals{Sessions: 1, WordsWritten: 200, DurationSeconds: 600}, totals)

	list, err := repo.ListSessions(entities.BookVariantFull, today)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
