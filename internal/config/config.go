package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Logging
		Database
		Storage
		Export
		Tasks
	}

	HTTP struct {
		Port               int32
		Host               string
		CORSAllowedOrigins []string
		UploadMaxBytes     int64
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Logging struct {
		Mode string // "development" or "production"
	}
	Database struct {
		Path string
	}
	Storage struct {
		Provider  string // "local" or "gcs"
		LocalDir  string
		GCSBucket string
		GCSPrefix string
	}
	Export struct {
		OutputDir  string
		ChromePath string        // Optional explicit Chrome/Chromium binary
		PDFTimeout time.Duration // Upper bound for a single PDF render
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("upload_max_bytes", 50<<20)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_mode", "development")
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("storage_provider", StorageProviderLocal)
	v.SetDefault("storage_local_dir", DefaultSourcesDir)
	v.SetDefault("storage_gcs_bucket", "")
	v.SetDefault("storage_gcs_prefix", "sources")

	v.SetDefault("export_output_dir", DefaultOutputDir)
	v.SetDefault("export_chrome_path", "")
	v.SetDefault("export_pdf_timeout", "2m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt32("PORT"),
			Host:               v.GetString("HOST"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			UploadMaxBytes:     v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Logging: Logging{
			Mode: v.GetString("LOG_MODE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Provider:  strings.ToLower(v.GetString("STORAGE_PROVIDER")),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
			GCSBucket: v.GetString("STORAGE_GCS_BUCKET"),
			GCSPrefix: v.GetString("STORAGE_GCS_PREFIX"),
		},
		Export: Export{
			OutputDir:  v.GetString("EXPORT_OUTPUT_DIR"),
			ChromePath: v.GetString("EXPORT_CHROME_PATH"),
			PDFTimeout: v.GetDuration("EXPORT_PDF_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
