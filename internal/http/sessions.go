package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

// SessionsController tracks writing sessions.
type SessionsController struct {
	sessions SessionService
	log      *logging.Logger
}

func NewSessionsController(sessions SessionService, log *logging.Logger) *SessionsController {
	return &SessionsController{sessions: sessions, log: log}
}

// List handles GET /api/sessions?bookType=&since= where since is RFC 3339
// or a date (YYYY-MM-DD, local time).
func (sc *SessionsController) List(c *gin.Context) {
	variant, ok := bookVariantQuery(c, sc.log)
	if !ok {
		return
	}
	since, err := parseSince(c.Query("since"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	sessions, err := sc.sessions.List(variant, since)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Start handles POST /api/sessions
func (sc *SessionsController) Start(c *gin.Context) {
	var in services.StartSessionInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	if in.BookVariant == "" {
		in.BookVariant = entities.BookVariant(c.Query("bookType"))
	}
	session, err := sc.sessions.Start(in)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	respondCreated(c, session)
}

// Finish handles POST /api/sessions/:id/finish with {words_written}.
func (sc *SessionsController) Finish(c *gin.Context) {
	var in services.FinishSessionInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	session, err := sc.sessions.Finish(c.Param("id"), in)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, entities.NewValidationError("since", "must be RFC 3339 or YYYY-MM-DD")
}
