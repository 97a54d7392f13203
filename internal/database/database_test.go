package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_SeedsDefaultSettings(t *testing.T) {
	db := setupTestDB(t)

	var settings []entities.Setting
	require.NoError(t, db.DB.Find(&settings).Error)

	got := map[string]string{}
	for _, s := range settings {
		got[s.Key] = s.Value
	}
	assert.Equal(t, entities.DefaultSettings, got)
}

func TestNewDatabase_SeedKeepsUserValues(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.DB.Model(&entities.Setting{}).
		Where("key = ?", entities.SettingKeyTheme).
		Update("value", "dark").Error)
	require.NoError(t, db.Close())

	reopened, err := NewDatabase(dbPath, logging.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	var theme entities.Setting
	require.NoError(t, reopened.DB.Where("key = ?", entities.SettingKeyTheme).First(&theme).Error)
	assert.Equal(t, "dark", theme.Value)
}

func TestDatabase_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping())
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqliteParams, DSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqliteParams, DSN("file:a.db?cache=shared"))
}
