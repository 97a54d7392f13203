package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/logging"
)

type StatsController struct {
	stats StatsService
	log   *logging.Logger
}

func NewStatsController(stats StatsService, log *logging.Logger) *StatsController {
	return &StatsController{stats: stats, log: log}
}

// Get handles GET /api/stats?bookType=
func (sc *StatsController) Get(c *gin.Context) {
	variant, ok := bookVariantQuery(c, sc.log)
	if !ok {
		return
	}
	stats, err := sc.stats.Stats(variant)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
