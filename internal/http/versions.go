package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

// VersionsController handles manuscript snapshots.
type VersionsController struct {
	versions Snapshotter
	log      *logging.Logger
}

func NewVersionsController(versions Snapshotter, log *logging.Logger) *VersionsController {
	return &VersionsController{versions: versions, log: log}
}

// List handles GET /api/versions?bookType=
func (vc *VersionsController) List(c *gin.Context) {
	variant, ok := bookVariantQuery(c, vc.log)
	if !ok {
		return
	}
	versions, err := vc.versions.List(variant)
	if err != nil {
		respondError(c, vc.log, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// Capture handles POST /api/versions
func (vc *VersionsController) Capture(c *gin.Context) {
	var in services.CaptureInput
	if !bindJSON(c, &in) {
		return
	}
	if in.BookVariant == "" {
		in.BookVariant = entities.BookVariant(c.Query("bookType"))
	}
	version, err := vc.versions.Capture(in)
	if err != nil {
		respondError(c, vc.log, err)
		return
	}
	respondCreated(c, version)
}

// Get handles GET /api/versions/:id, including the decoded chapters.
func (vc *VersionsController) Get(c *gin.Context) {
	detail, err := vc.versions.Get(c.Param("id"))
	if err != nil {
		respondError(c, vc.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Archive handles GET /api/versions/:id/archive. The zip is built in memory
// first so a failure still yields a JSON error instead of a truncated body.
func (vc *VersionsController) Archive(c *gin.Context) {
	var buf bytes.Buffer
	name, err := vc.versions.Archive(&buf, c.Param("id"))
	if err != nil {
		respondError(c, vc.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
