package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	health := NewHealthController(cfg.Database, cfg.Version)
	chapters := NewChaptersController(cfg.Chapters, log)
	sources := NewSourcesController(cfg.Sources, cfg.UploadMaxBytes, log)
	versions := NewVersionsController(cfg.Versions, log)
	quotes := NewQuotesController(cfg.Quotes, log)
	settings := NewSettingsController(cfg.Settings, log)
	export := NewExportController(cfg.Exports, cfg.Tasks, log)
	stats := NewStatsController(cfg.Stats, log)
	sessions := NewSessionsController(cfg.Sessions, log)
	tasks := NewTasksController(cfg.Tasks, log)

	api := router.Group("/api")
	{
		api.GET("/health", health.Status)

		api.GET("/chapters", chapters.List)
		api.POST("/chapters", chapters.Create)
		// Registered before /chapters/:id so "reorder" is never read as an id.
		api.POST("/chapters/reorder", chapters.Reorder)
		api.GET("/chapters/:id", chapters.Get)
		api.PUT("/chapters/:id", chapters.Update)
		api.DELETE("/chapters/:id", chapters.Delete)

		api.GET("/sources", sources.List)
		api.POST("/sources", sources.Create)
		api.POST("/sources/upload", sources.Upload)
		api.GET("/sources/:id", sources.Get)
		api.GET("/sources/:id/file", sources.Download)
		api.PUT("/sources/:id", sources.Update)
		api.DELETE("/sources/:id", sources.Delete)

		api.GET("/versions", versions.List)
		api.POST("/versions", versions.Capture)
		api.GET("/versions/:id", versions.Get)
		api.GET("/versions/:id/archive", versions.Archive)

		api.GET("/quotes", quotes.List)
		api.POST("/quotes", quotes.Create)
		api.PUT("/quotes/:id", quotes.Update)
		api.DELETE("/quotes/:id", quotes.Delete)

		api.GET("/settings", settings.Get)
		api.PUT("/settings", settings.Update)

		api.POST("/export/:format", export.Export)

		api.GET("/stats", stats.Get)

		api.GET("/sessions", sessions.List)
		api.POST("/sessions", sessions.Start)
		api.POST("/sessions/:id/finish", sessions.Finish)

		api.GET("/tasks/:id", tasks.GetTaskStatus)
		api.POST("/tasks/:name", tasks.RunTask)
	}

	return router
}
