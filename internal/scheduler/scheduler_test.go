package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/settings"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
	"github.com/mrlokans/manuscript/internal/settingsstore"
)

type fakeChapters map[entities.BookVariant]int

func (f fakeChapters) List(variant entities.BookVariant) ([]entities.Chapter, error) {
	return make([]entities.Chapter, f[variant]), nil
}

type fakeCapturer struct {
	captured []services.CaptureInput
	err      error
}

func (f *fakeCapturer) Capture(in services.CaptureInput) (*entities.Version, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.captured = append(f.captured, in)
	return &entities.Version{BookVariant: in.BookVariant, ChapterCount: 3}, nil
}

func setupStore(t *testing.T) *settingsstore.SettingsStore {
	t.Helper()
	t.Setenv("AUTO_SNAPSHOT_ENABLED", "")
	t.Setenv("AUTO_SNAPSHOT_SCHEDULE", "")
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "scheduler.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return settingsstore.New(settings.NewRepository(db.DB))
}

func TestAutoSnapshotScheduler_RunOnceSkipsEmptyVariants(t *testing.T) {
	store := setupStore(t)
	capturer := &fakeCapturer{}
	s := NewAutoSnapshotScheduler(capturer, fakeChapters{entities.BookVariantFull: 3}, store, logging.NewNop())

	s.RunOnce()

	require.Len(t, capturer.captured, 1)
	assert.Equal(t, entities.BookVariantFull, capturer.captured[0].BookVariant)
	assert.Contains(t, capturer.captured[0].VersionName, "Auto snapshot")

	status := store.GetAutoSnapshotStatus()
	assert.Equal(t, "success", status.Status)
	assert.Contains(t, status.Message, "full (3 chapters)")
}

func TestAutoSnapshotScheduler_RunOnceRecordsFailure(t *testing.T) {
	store := setupStore(t)
	capturer := &fakeCapturer{err: errors.New("database is locked")}
	s := NewAutoSnapshotScheduler(capturer, fakeChapters{entities.BookVariantBooklet: 1}, store, logging.NewNop())

	s.RunOnce()

	status := store.GetAutoSnapshotStatus()
	assert.Equal(t, "failed", status.Status)
	assert.Contains(t, status.Message, "database is locked")
}

func TestAutoSnapshotScheduler_StartDisabled(t *testing.T) {
	store := setupStore(t)
	s := NewAutoSnapshotScheduler(&fakeCapturer{}, fakeChapters{}, store, logging.NewNop())

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestAutoSnapshotScheduler_RescheduleOnSettingsChange(t *testing.T) {
	store := setupStore(t)
	s := NewAutoSnapshotScheduler(&fakeCapturer{}, fakeChapters{}, store, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	assert.False(t, s.IsRunning())

	require.NoError(t, store.SetAutoSnapshotEnabled(true))
	s.OnSettingsChanged([]string{"theme"})
	assert.False(t, s.IsRunning(), "unrelated keys do not reschedule")

	s.OnSettingsChanged([]string{entities.SettingKeyAutoSnapshotEnabled})
	assert.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	require.NoError(t, store.SetAutoSnapshotEnabled(false))
	s.OnSettingsChanged([]string{entities.SettingKeyAutoSnapshotEnabled})
	assert.False(t, s.IsRunning())
}

func TestExportCleanupScheduler_Trigger(t *testing.T) {
	var calls atomic.Int32
	s := newExportCleanupScheduler(func() (string, error) {
		calls.Add(1)
		return "task-1", nil
	}, "", logging.NewNop())
	assert.Equal(t, DefaultExportCleanupSchedule, s.schedule)

	s.trigger()
	assert.Equal(t, int32(1), calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.isRunning)
	s.Stop()
	cancel()
}

func TestExportCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := newExportCleanupScheduler(func() (string, error) { return "", nil }, "sometimes", logging.NewNop())
	assert.Error(t, s.Start(context.Background()))
}
