package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/manuscript/internal/cli"
	"github.com/mrlokans/manuscript/internal/database/chapters"
	"github.com/mrlokans/manuscript/internal/database/quotes"
	"github.com/mrlokans/manuscript/internal/database/sessions"
	"github.com/mrlokans/manuscript/internal/database/settings"
	"github.com/mrlokans/manuscript/internal/database/sources"
	"github.com/mrlokans/manuscript/internal/database/versions"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/http"
	"github.com/mrlokans/manuscript/internal/render"
	"github.com/mrlokans/manuscript/internal/scheduler"
	"github.com/mrlokans/manuscript/internal/services"
	"github.com/mrlokans/manuscript/internal/settingsstore"
	"github.com/mrlokans/manuscript/internal/storage"
	"github.com/mrlokans/manuscript/internal/storage/providers/gcs"
	"github.com/mrlokans/manuscript/internal/storage/providers/local"
	"github.com/mrlokans/manuscript/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.ChapterStore = (*chapters.Repository)(nil)
var _ services.SourceStore = (*sources.Repository)(nil)
var _ services.VersionStore = (*versions.Repository)(nil)
var _ services.QuoteStore = (*quotes.Repository)(nil)
var _ services.SessionStore = (*sessions.Repository)(nil)
var _ services.SettingsRepository = (*settings.Repository)(nil)
var _ settingsstore.Repository = (*settings.Repository)(nil)
var _ services.WordGoalReader = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// Blob Storage
// =============================================================================

var _ storage.Client = (*local.Client)(nil)
var _ storage.Client = (*gcs.Client)(nil)

// =============================================================================
// Export Pipeline
// =============================================================================

var _ exporters.MarkupRenderer = (*render.Renderer)(nil)
var _ exporters.PDFEngine = (*exporters.ChromePDFEngine)(nil)
var _ services.ManuscriptWriter = (*exporters.DocumentExporter)(nil)
var _ services.ManuscriptWriter = (*exporters.SiteExporter)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.ChapterService = (*services.ChapterService)(nil)
var _ http.SourceCatalog = (*services.SourceCatalog)(nil)
var _ http.Snapshotter = (*services.Snapshotter)(nil)
var _ http.QuoteService = (*services.QuoteService)(nil)
var _ http.SettingsService = (*services.SettingsService)(nil)
var _ http.ExportRenderer = (*services.ExportService)(nil)
var _ http.StatsService = (*services.StatsService)(nil)
var _ http.SessionService = (*services.SessionService)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.ExportRenderer = (*services.ExportService)(nil)
var _ tasks.ArtifactPruner = (*services.ExportService)(nil)
var _ tasks.RetentionReader = (*settingsstore.SettingsStore)(nil)
var _ scheduler.VersionCapturer = (*services.Snapshotter)(nil)
var _ scheduler.ChapterLister = (*services.ChapterService)(nil)

// =============================================================================
// CLI
// =============================================================================

var _ cli.ChapterCreator = (*services.ChapterService)(nil)
var _ cli.VersionCapturer = (*services.Snapshotter)(nil)
