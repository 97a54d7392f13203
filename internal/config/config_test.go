package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, StorageProviderLocal, cfg.Storage.Provider)
	assert.Equal(t, DefaultSourcesDir, cfg.Storage.LocalDir)
	assert.Equal(t, DefaultOutputDir, cfg.Export.OutputDir)
	assert.Equal(t, 2*time.Minute, cfg.Export.PDFTimeout)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_PROVIDER", "GCS")
	t.Setenv("STORAGE_GCS_BUCKET", "my-bucket")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("TASKS_ENABLED", "false")
	t.Setenv("EXPORT_PDF_TIMEOUT", "30s")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, StorageProviderGCS, cfg.Storage.Provider)
	assert.Equal(t, "my-bucket", cfg.Storage.GCSBucket)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSAllowedOrigins)
	assert.False(t, cfg.Tasks.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Export.PDFTimeout)
}
