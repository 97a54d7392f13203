package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/logging"
)

func serveHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/api/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealthController_Status(t *testing.T) {
	t.Run("healthy when database is reachable", func(t *testing.T) {
		db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"), logging.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		w, resp := serveHealth(t, NewHealthController(db, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.NotEmpty(t, resp.Time)
	})

	t.Run("unhealthy after the database is closed", func(t *testing.T) {
		db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"), logging.NewNop())
		require.NoError(t, err)
		require.NoError(t, db.Close())

		w, resp := serveHealth(t, NewHealthController(db, ""))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "unreachable", resp.Checks["database"])
	})

	t.Run("reports missing database", func(t *testing.T) {
		w, resp := serveHealth(t, NewHealthController(nil, "dev"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "not configured", resp.Checks["database"])
	})
}
