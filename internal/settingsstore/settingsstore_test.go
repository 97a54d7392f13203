package settingsstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/settings"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

func setupTestStore(t *testing.T) (*SettingsStore, *settings.Repository) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := settings.NewRepository(db.DB)
	return New(repo), repo
}

func TestAutoSnapshotEnabled(t *testing.T) {
	t.Setenv(envAutoSnapshotEnabled, "")
	store, repo := setupTestStore(t)

	// Default should be false
	assert.False(t, store.GetAutoSnapshotEnabled())
	assert.Equal(t, SourceDefault, store.GetAutoSnapshotEnabledSource())

	require.NoError(t, store.SetAutoSnapshotEnabled(true))
	assert.True(t, store.GetAutoSnapshotEnabled())
	assert.Equal(t, SourceDatabase, store.GetAutoSnapshotEnabledSource())

	// Clear and verify fallback
	require.NoError(t, repo.DeleteSetting(entities.SettingKeyAutoSnapshotEnabled))
	assert.False(t, store.GetAutoSnapshotEnabled())
	assert.Equal(t, SourceDefault, store.GetAutoSnapshotEnabledSource())
}

func TestAutoSnapshotEnabledWithEnv(t *testing.T) {
	t.Setenv(envAutoSnapshotEnabled, "true")
	store, _ := setupTestStore(t)

	assert.True(t, store.GetAutoSnapshotEnabled())
	assert.Equal(t, SourceEnvironment, store.GetAutoSnapshotEnabledSource())

	// Database should override env
	require.NoError(t, store.SetAutoSnapshotEnabled(false))
	assert.False(t, store.GetAutoSnapshotEnabled())
	assert.Equal(t, SourceDatabase, store.GetAutoSnapshotEnabledSource())
}

func TestAutoSnapshotSchedule(t *testing.T) {
	t.Setenv(envAutoSnapshotSchedule, "")
	store, repo := setupTestStore(t)

	assert.Equal(t, DefaultAutoSnapshotSchedule, store.GetAutoSnapshotSchedule())

	require.NoError(t, store.SetAutoSnapshotSchedule("0 */6 * * *"))
	assert.Equal(t, "0 */6 * * *", store.GetAutoSnapshotSchedule())

	err := store.SetAutoSnapshotSchedule("every tuesday")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrValidation)

	// A bad value written around the store falls back to the default
	require.NoError(t, repo.SetSetting(entities.SettingKeyAutoSnapshotSchedule, "not cron"))
	assert.Equal(t, DefaultAutoSnapshotSchedule, store.GetAutoSnapshotSchedule())
}

func TestAutoSnapshotStatus(t *testing.T) {
	store, _ := setupTestStore(t)

	status := store.GetAutoSnapshotStatus()
	assert.Nil(t, status.LastRunAt)
	assert.Empty(t, status.Status)

	require.NoError(t, store.SetAutoSnapshotStatus("success", "2 versions captured"))

	status = store.GetAutoSnapshotStatus()
	require.NotNil(t, status.LastRunAt)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, "2 versions captured", status.Message)
}

func TestAutoSnapshotConfigInfo(t *testing.T) {
	t.Setenv(envAutoSnapshotEnabled, "")
	t.Setenv(envAutoSnapshotSchedule, "")
	store, _ := setupTestStore(t)

	info := store.GetAutoSnapshotConfigInfo()
	assert.False(t, info.Enabled)
	assert.Nil(t, info.NextRunAt)
	assert.Equal(t, "Daily at 03:00", info.ScheduleDescription)

	require.NoError(t, store.SetAutoSnapshotEnabled(true))
	info = store.GetAutoSnapshotConfigInfo()
	assert.NotNil(t, info.NextRunAt)

	require.NoError(t, store.ClearAutoSnapshotSettings())
	assert.False(t, store.GetAutoSnapshotEnabled())
}

func TestExportRetentionDays(t *testing.T) {
	t.Setenv(envExportRetentionDays, "")
	store, repo := setupTestStore(t)

	assert.Equal(t, 14, store.GetExportRetentionDays())
	assert.Equal(t, SourceDefault, store.GetExportRetentionDaysSource())

	t.Setenv(envExportRetentionDays, "3")
	assert.Equal(t, 3, store.GetExportRetentionDays())
	assert.Equal(t, SourceEnvironment, store.GetExportRetentionDaysSource())

	require.NoError(t, store.SetExportRetentionDays(0))
	assert.Equal(t, 0, store.GetExportRetentionDays())

	require.NoError(t, repo.SetSetting(entities.SettingKeyExportRetentionDays, "-4"))
	assert.Equal(t, 14, store.GetExportRetentionDays())
}

func TestDailyWordGoal(t *testing.T) {
	store, repo := setupTestStore(t)

	assert.Equal(t, 1000, store.GetDailyWordGoal())

	require.NoError(t, repo.SetSetting(entities.SettingKeyDailyWordGoal, "750"))
	assert.Equal(t, 750, store.GetDailyWordGoal())

	require.NoError(t, repo.SetSetting(entities.SettingKeyDailyWordGoal, "lots"))
	assert.Equal(t, 1000, store.GetDailyWordGoal())
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 3 * * *", true},
		{"*/15 * * * *", true},
		{"0 0 * * 0", true},
		{"* * * * * *", false},
		{"", false},
		{"tomorrow", false},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
