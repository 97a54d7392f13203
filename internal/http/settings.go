package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/logging"
)

type SettingsController struct {
	settings SettingsService
	log      *logging.Logger
}

func NewSettingsController(settings SettingsService, log *logging.Logger) *SettingsController {
	return &SettingsController{settings: settings, log: log}
}

// Get handles GET /api/settings
func (sc *SettingsController) Get(c *gin.Context) {
	values, err := sc.settings.All()
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

// Update handles PUT /api/settings. Either every key is stored or none is.
func (sc *SettingsController) Update(c *gin.Context) {
	var values map[string]any
	if !bindJSON(c, &values) {
		return
	}
	updated, err := sc.settings.Upsert(values)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
