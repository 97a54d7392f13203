package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/config"
	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/chapters"
	"github.com/mrlokans/manuscript/internal/database/quotes"
	"github.com/mrlokans/manuscript/internal/database/sessions"
	"github.com/mrlokans/manuscript/internal/database/settings"
	"github.com/mrlokans/manuscript/internal/database/sources"
	"github.com/mrlokans/manuscript/internal/database/versions"
	"github.com/mrlokans/manuscript/internal/exporters"
	http_controllers "github.com/mrlokans/manuscript/internal/http"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/render"
	"github.com/mrlokans/manuscript/internal/scheduler"
	"github.com/mrlokans/manuscript/internal/services"
	"github.com/mrlokans/manuscript/internal/settingsstore"
	"github.com/mrlokans/manuscript/internal/storage"
	"github.com/mrlokans/manuscript/internal/storage/providers/gcs"
	"github.com/mrlokans/manuscript/internal/storage/providers/local"
	"github.com/mrlokans/manuscript/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired services. The CLI commands share it with the server.
type App struct {
	DB            *database.Database
	SettingsStore *settingsstore.SettingsStore
	Chapters      *services.ChapterService
	Sources       *services.SourceCatalog
	Versions      *services.Snapshotter
	Quotes        *services.QuoteService
	Settings      *services.SettingsService
	Exports       *services.ExportService
	Stats         *services.StatsService
	Sessions      *services.SessionService
}

// NewApp opens the database and the blob stores and wires every service.
func NewApp(ctx context.Context, cfg *config.Config, log *logging.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg.Storage, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	output, err := local.NewClient(cfg.Export.OutputDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open export output dir: %w", err)
	}

	chapterRepo := chapters.NewRepository(db.DB)
	sourceRepo := sources.NewRepository(db.DB)
	versionRepo := versions.NewRepository(db.DB)
	quoteRepo := quotes.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	store := settingsstore.New(settingsRepo)

	engine := exporters.NewChromePDFEngine(cfg.Export.ChromePath, cfg.Export.PDFTimeout)

	return &App{
		DB:            db,
		SettingsStore: store,
		Chapters:      services.NewChapterService(chapterRepo, log),
		Sources:       services.NewSourceCatalog(sourceRepo, blobs, log),
		Versions:      services.NewSnapshotter(versionRepo, log),
		Quotes:        services.NewQuoteService(quoteRepo),
		Settings:      services.NewSettingsService(settingsRepo, store, log),
		Exports: services.NewExportService(
			chapterRepo,
			render.NewRenderer(),
			exporters.NewDocumentExporter(engine, output, log),
			exporters.NewSiteExporter(output, log),
			output,
			log,
		),
		Stats:    services.NewStatsService(chapterRepo, sourceRepo, quoteRepo, versionRepo, sessionRepo, store),
		Sessions: services.NewSessionService(sessionRepo, chapterRepo),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

func newBlobStore(ctx context.Context, cfg config.Storage, log *logging.Logger) (storage.Client, error) {
	switch cfg.Provider {
	case config.StorageProviderGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("STORAGE_GCS_BUCKET is required for the gcs provider")
		}
		client, err := gcs.NewClient(ctx, cfg.GCSBucket, cfg.GCSPrefix, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs client: %w", err)
		}
		log.Info("Source storage: gcs", "bucket", cfg.GCSBucket, "prefix", cfg.GCSPrefix)
		return client, nil
	case config.StorageProviderLocal, "":
		client, err := local.NewClient(cfg.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open source dir: %w", err)
		}
		log.Info("Source storage: local", "dir", cfg.LocalDir)
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func Serve(router *gin.Engine, cfg *config.Config, log *logging.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "error", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so in-flight tasks can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown", "error", err)
	}

	log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log, err := logging.New(cfg.Logging.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Manuscript", "version", version)
	if cfg.Logging.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", "error", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Error closing database", "error", err)
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Chapters:           app.Chapters,
		Sources:            app.Sources,
		Versions:           app.Versions,
		Quotes:             app.Quotes,
		Settings:           app.Settings,
		Exports:            app.Exports,
		Stats:              app.Stats,
		Sessions:           app.Sessions,
		Database:           app.DB,
		Logger:             log,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		UploadMaxBytes:     cfg.HTTP.UploadMaxBytes,
		Version:            version,
	}

	// Task queue and the export cleanup cron that feeds it.
	var taskClient *tasks.Client
	var cleanup *scheduler.ExportCleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks), log)
		if err != nil {
			log.Fatal("Failed to initialize task queue", "error", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("Error closing task client", "error", err)
			}
		}()

		taskClient.Register(
			tasks.NewRenderExportQueue(app.Exports, log),
			tasks.NewCleanupExportsQueue(app.Exports, app.SettingsStore, log),
		)
		go taskClient.Start(ctx)
		routerCfg.Tasks = taskClient

		cleanup = scheduler.NewExportCleanupScheduler(taskClient, scheduler.DefaultExportCleanupSchedule, log)
		if err := cleanup.Start(ctx); err != nil {
			log.Error("Failed to start export cleanup scheduler", "error", err)
		}
	} else {
		log.Info("Task queue disabled, async exports and export cleanup are unavailable")
	}

	snapshots := scheduler.NewAutoSnapshotScheduler(app.Versions, app.Chapters, app.SettingsStore, log)
	if err := snapshots.Start(ctx); err != nil {
		log.Error("Failed to start auto snapshot scheduler", "error", err)
	}
	app.Settings.OnChange(snapshots.OnSettingsChanged)

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		snapshots.Stop()
		if cleanup != nil {
			cleanup.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		stopBackground()
	}

	Serve(router, cfg, log, onShutdown)
}
