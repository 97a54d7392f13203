package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

// SourcesController handles the source catalog and its file blobs.
type SourcesController struct {
	catalog        SourceCatalog
	uploadMaxBytes int64
	log            *logging.Logger
}

func NewSourcesController(catalog SourceCatalog, uploadMaxBytes int64, log *logging.Logger) *SourcesController {
	return &SourcesController{catalog: catalog, uploadMaxBytes: uploadMaxBytes, log: log}
}

// List handles GET /api/sources?category=&search=&tag=
func (sc *SourcesController) List(c *gin.Context) {
	filter := entities.SourceFilter{
		Category: entities.SourceCategory(strings.TrimSpace(c.Query("category"))),
		Search:   strings.TrimSpace(c.Query("search")),
		Tag:      strings.TrimSpace(c.Query("tag")),
	}
	if filter.Category == "all" {
		filter.Category = ""
	}
	sources, err := sc.catalog.List(filter)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

type createSourceRequest struct {
	Filename     string                  `json:"filename"`
	OriginalName string                  `json:"originalName"`
	FileType     string                  `json:"fileType"`
	Category     entities.SourceCategory `json:"category"`
	Tags         []string                `json:"tags"`
	FileSize     int64                   `json:"fileSize"`
}

// Create handles POST /api/sources with metadata only, for sources whose
// file already lives in the blob store.
func (sc *SourcesController) Create(c *gin.Context) {
	var req createSourceRequest
	if !bindJSON(c, &req) {
		return
	}
	source := entities.Source{
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		FileType:     req.FileType,
		Category:     req.Category,
		Tags:         req.Tags,
		FileSize:     req.FileSize,
	}
	if err := sc.catalog.Create(&source); err != nil {
		respondError(c, sc.log, err)
		return
	}
	respondCreated(c, source)
}

// Upload handles POST /api/sources/upload (multipart: file, category, tags).
func (sc *SourcesController) Upload(c *gin.Context) {
	if sc.uploadMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sc.uploadMaxBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", sc.uploadMaxBytes),
				Code:  CodeValidation,
			})
			return
		}
		respondError(c, sc.log, entities.NewValidationError("file", "a file is required"))
		return
	}

	tags, err := parseFormTags(c.PostForm("tags"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondInternalError(c, sc.log, fmt.Errorf("open multipart file: %w", err))
		return
	}
	defer file.Close()

	source, err := sc.catalog.Upload(c.Request.Context(), file, services.UploadInput{
		OriginalName: header.Filename,
		Size:         header.Size,
		Category:     entities.SourceCategory(strings.TrimSpace(c.PostForm("category"))),
		Tags:         tags,
	})
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	respondCreated(c, source)
}

// Get handles GET /api/sources/:id
func (sc *SourcesController) Get(c *gin.Context) {
	source, err := sc.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// Download handles GET /api/sources/:id/file, streaming the blob back under
// its original name.
func (sc *SourcesController) Download(c *gin.Context) {
	rc, source, err := sc.catalog.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(source.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, source.FileSize, contentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": source.OriginalName}),
	})
}

// Update handles PUT /api/sources/:id (tags, highlights, linked_chapters).
func (sc *SourcesController) Update(c *gin.Context) {
	var patch entities.SourcePatch
	if !bindJSON(c, &patch) {
		return
	}
	source, err := sc.catalog.Update(c.Param("id"), patch)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// Delete handles DELETE /api/sources/:id
func (sc *SourcesController) Delete(c *gin.Context) {
	if err := sc.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, sc.log, err)
		return
	}
	respondSuccess(c, "source deleted")
}

// parseFormTags accepts a JSON array or a comma separated list.
func parseFormTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, entities.NewValidationError("tags", "must be a JSON array of strings")
		}
		return tags, nil
	}
	return strings.Split(raw, ","), nil
}
