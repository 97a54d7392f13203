package http

import (
	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/logging"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Domain services
	Chapters ChapterService
	Sources  SourceCatalog
	Versions Snapshotter
	Quotes   QuoteService
	Settings SettingsService
	Exports  ExportRenderer
	Stats    StatsService
	Sessions SessionService

	// Task queue (optional). Without it async exports and
	// the tasks endpoints answer 503.
	Tasks TaskQueue

	Database *database.Database
	Logger   *logging.Logger

	CORSAllowedOrigins []string
	UploadMaxBytes     int64

	// Application info
	Version string
}
