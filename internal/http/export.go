package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
	"github.com/mrlokans/manuscript/internal/tasks"
)

// ExportController renders PDFs and static sites, inline or through the
// task queue.
type ExportController struct {
	renderer ExportRenderer
	queue    TaskQueue
	log      *logging.Logger
}

func NewExportController(renderer ExportRenderer, queue TaskQueue, log *logging.Logger) *ExportController {
	return &ExportController{renderer: renderer, queue: queue, log: log}
}

// Export handles POST /api/export/:format with {bookType, title, subtitle}.
// With ?async=true the render is queued and 202 carries the task id and the
// artifact the task will produce.
func (ec *ExportController) Export(c *gin.Context) {
	format, err := services.ParseFormat(c.Param("format"))
	if err != nil {
		respondError(c, ec.log, err)
		return
	}

	var in services.ExportInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	if in.BookVariant == "" {
		in.BookVariant = entities.BookVariant(c.Query("bookType"))
	}
	variant, err := entities.ParseBookVariant(string(in.BookVariant))
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	in.BookVariant = variant

	if queryBool(c, "async") {
		ec.enqueue(c, format, in)
		return
	}

	result, err := ec.renderer.Render(c.Request.Context(), format, in)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ec *ExportController) enqueue(c *gin.Context, format exporters.Format, in services.ExportInput) {
	if ec.queue == nil {
		respondTasksUnavailable(c)
		return
	}

	requestedAt := time.Now().UTC().Truncate(time.Second)
	taskID, err := ec.queue.Enqueue(tasks.RenderExportTask{
		Format:      format,
		BookVariant: in.BookVariant,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		RequestedAt: requestedAt,
	})
	if err != nil {
		respondInternalError(c, ec.log, err)
		return
	}

	name, path := exporters.ArtifactName(format, in.BookVariant, requestedAt)
	ec.log.Info("Export queued", "task_id", taskID, "format", format, "book_type", in.BookVariant)
	respondAccepted(c, "export queued", gin.H{
		"task_id": taskID,
		"format":  format,
		"name":    name,
		"path":    path,
	})
}
