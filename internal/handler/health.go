package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionCounter reports the number of sessions held.
type SessionCounter interface {
	Count() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	sessions SessionCounter
	catalog  bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// SetSessions sets the session store whose size is reported.
func (h *HealthHandler) SetSessions(sessions SessionCounter) {
	h.sessions = sessions
}

// SetCatalogEnabled records whether the image catalog is configured.
func (h *HealthHandler) SetCatalogEnabled(enabled bool) {
	h.catalog = enabled
}

// Check returns the health status of the server.
func (h *HealthHandler) Check(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"catalog": h.catalog,
	}
	if h.sessions != nil {
		resp["sessions"] = h.sessions.Count()
	}
	return c.JSON(http.StatusOK, resp)
}
