// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
// Services depend on narrow store interfaces (internal/services/interfaces.go),
// implemented by the gorm repositories under internal/database/:
//
//   - ChapterStore: ordered chapters per book variant (database/chapters)
//   - SourceStore: source metadata and filters (database/sources)
//   - VersionStore: append-only snapshots (database/versions)
//   - QuoteStore, SessionStore, SettingsRepository
//
// ## Blob Storage
//
//   - storage.Client: List/Download/Upload/Delete/Exists/GetMetadata, with a
//     local provider (afero backed) and a Google Cloud Storage provider.
//
// ## Export Pipeline
//
//   - MarkupRenderer: markdown to sanitized HTML (internal/render)
//   - PDFEngine: HTML to PDF bytes (headless Chrome in production, a fake in tests)
//   - ManuscriptWriter: stores a rendered manuscript as a PDF or a site folder
//
// ## HTTP Layer
//
// Controllers in internal/http accept the service interfaces declared in
// stores.go, so handlers can be tested against fakes or real services.
//
// # Adding a New Export Format
//
//  1. Implement ManuscriptWriter in internal/exporters/
//
//     type EPUBExporter struct {
//         output storage.Client
//     }
//
//     func (e *EPUBExporter) Export(ctx context.Context, m *Manuscript) (*ExportResult, error)
//
//  2. Add a Format constant and register the writer in services.NewExportService
//
//  3. Accept the route name in services.ParseFormat
//
// # Adding a New Storage Provider
//
//  1. Create internal/storage/providers/<name>/ implementing storage.Client
//
//  2. Return storage.ErrNotFound for missing keys
//
//  3. Select it in entrypoint.newBlobStore
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
