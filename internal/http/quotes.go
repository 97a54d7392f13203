package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

type QuotesController struct {
	quotes QuoteService
	log    *logging.Logger
}

func NewQuotesController(quotes QuoteService, log *logging.Logger) *QuotesController {
	return &QuotesController{quotes: quotes, log: log}
}

// List handles GET /api/quotes?search=
func (qc *QuotesController) List(c *gin.Context) {
	quotes, err := qc.quotes.List(strings.TrimSpace(c.Query("search")))
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// Create handles POST /api/quotes
func (qc *QuotesController) Create(c *gin.Context) {
	var in services.CreateQuoteInput
	if !bindJSON(c, &in) {
		return
	}
	quote, err := qc.quotes.Create(in)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	respondCreated(c, quote)
}

// Update handles PUT /api/quotes/:id
func (qc *QuotesController) Update(c *gin.Context) {
	var patch entities.QuotePatch
	if !bindJSON(c, &patch) {
		return
	}
	quote, err := qc.quotes.Update(c.Param("id"), patch)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Delete handles DELETE /api/quotes/:id
func (qc *QuotesController) Delete(c *gin.Context) {
	if err := qc.quotes.Delete(c.Param("id")); err != nil {
		respondError(c, qc.log, err)
		return
	}
	respondSuccess(c, "quote deleted")
}
