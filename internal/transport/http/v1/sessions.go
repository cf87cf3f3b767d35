package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safar-ai/safar/internal/service"
)

// GetSession returns the full stored view of a session.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	snapshot, err := h.service.SessionSnapshot(ctx, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetSessionStats returns row counts and lifecycle timestamps for a session.
// GET /api/sessions/:session_id/stats
func (h *Handler) GetSessionStats(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	stats, err := h.service.SessionStatistics(ctx, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, stats)
}

// DeleteSession removes a session and everything it owns.
// DELETE /api/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if !h.service.DeleteSession(ctx, sessionID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":         true,
		"session_id": sessionID,
	})
}
