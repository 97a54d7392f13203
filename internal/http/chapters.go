package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

// ChaptersController handles the ordered chapter registry endpoints.
type ChaptersController struct {
	chapters ChapterService
	log      *logging.Logger
}

func NewChaptersController(chapters ChapterService, log *logging.Logger) *ChaptersController {
	return &ChaptersController{chapters: chapters, log: log}
}

type reorderRequest struct {
	Chapters []entities.ChapterPosition `json:"chapters"`
}

// List handles GET /api/chapters?bookType=
func (cc *ChaptersController) List(c *gin.Context) {
	variant, ok := bookVariantQuery(c, cc.log)
	if !ok {
		return
	}
	chapters, err := cc.chapters.List(variant)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

// Create handles POST /api/chapters. The variant may come from the body or
// the bookType query parameter; the body wins.
func (cc *ChaptersController) Create(c *gin.Context) {
	var in services.CreateChapterInput
	if !bindJSON(c, &in) {
		return
	}
	if in.BookVariant == "" {
		in.BookVariant = entities.BookVariant(c.Query("bookType"))
	}
	chapter, err := cc.chapters.Create(in)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondCreated(c, chapter)
}

// Get handles GET /api/chapters/:id
func (cc *ChaptersController) Get(c *gin.Context) {
	chapter, err := cc.chapters.Get(c.Param("id"))
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Update handles PUT /api/chapters/:id with a partial body.
func (cc *ChaptersController) Update(c *gin.Context) {
	var patch entities.ChapterPatch
	if !bindJSON(c, &patch) {
		return
	}
	chapter, err := cc.chapters.Update(c.Param("id"), patch)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Delete handles DELETE /api/chapters/:id
func (cc *ChaptersController) Delete(c *gin.Context) {
	if err := cc.chapters.Delete(c.Param("id")); err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, "chapter deleted")
}

// Reorder handles POST /api/chapters/reorder with {"chapters": [{id, order_index}]}.
func (cc *ChaptersController) Reorder(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Chapters == nil {
		respondBadRequest(c, "chapters array is required")
		return
	}
	if err := cc.chapters.Reorder(req.Chapters); err != nil {
		respondError(c, cc.log, err)
		return
	}
	respondSuccess(c, "chapters reordered")
}
